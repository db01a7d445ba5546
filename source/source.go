// Package source reads rule sheets from CSV, TSV and Excel files.
//
// Every source exposes the header row as its columns and each following row
// as a record addressed by column label. Cells a row does not have are
// reported as absent.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/robinvdvleuten/categorizer/rules"
)

// Record is a row keyed by column label.
type Record map[string]string

// Lookup implements rules.Record.
func (r Record) Lookup(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Rows is an in-memory sheet. It implements rules.RowSource.
type Rows struct {
	columns []string
	records []Record
	lines   []int
}

// Records returns a sheet holding records. Lines are numbered as if the
// header were line 1.
func Records(columns []string, records ...Record) *Rows {
	rows := &Rows{columns: append([]string(nil), columns...)}
	for i, rec := range records {
		rows.records = append(rows.records, rec)
		rows.lines = append(rows.lines, i+2)
	}
	return rows
}

// fromGrid uses the first row of grid as header. Blank header cells are
// dropped together with their column.
func fromGrid(grid [][]string) (*Rows, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := grid[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := &Rows{}
	seen := make(map[string]int, len(header))
	for i, label := range header {
		label = strings.TrimSpace(label)
		header[i] = label
		if label == "" {
			continue
		}
		if prev, ok := seen[label]; ok {
			return nil, fmt.Errorf("column %q appears twice (columns %d and %d)", label, prev+1, i+1)
		}
		seen[label] = i
		rows.columns = append(rows.columns, label)
	}

	for n, cells := range grid[1:] {
		rec := make(Record, len(cells))
		for i, v := range cells {
			if i < len(header) && header[i] != "" {
				rec[header[i]] = v
			}
		}
		rows.records = append(rows.records, rec)
		rows.lines = append(rows.lines, n+2)
	}
	return rows, nil
}

// Columns implements rules.RowSource.
func (r *Rows) Columns() []string {
	return r.columns
}

// Len returns the number of rows below the header.
func (r *Rows) Len() int {
	return len(r.records)
}

// Each implements rules.RowSource.
func (r *Rows) Each(fn func(line int, rec rules.Record) error) error {
	for i, rec := range r.records {
		if err := fn(r.lines[i], rec); err != nil {
			return err
		}
	}
	return nil
}

// Open reads the sheet at path, choosing the reader by file extension.
// sheet selects the worksheet of Excel files; empty means the first one.
func Open(path, sheet string) (*Rows, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return OpenCSV(path, ',')
	case ".tsv", ".tab":
		return OpenCSV(path, '\t')
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return OpenXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("%s: unsupported rule sheet format %q (use .csv, .tsv or .xlsx)", path, ext)
	}
}

var _ rules.RowSource = (*Rows)(nil)
