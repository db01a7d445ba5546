package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads a delimited sheet from r. Rows may have fewer cells than the
// header.
func ReadCSV(r io.Reader, comma rune) (*Rows, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	// encoding/csv skips blank lines, so keep the physical line of each row.
	var (
		grid  [][]string
		lines []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		grid = append(grid, rec)
		lines = append(lines, line)
	}

	rows, err := fromGrid(grid)
	if err != nil {
		return nil, err
	}
	rows.lines = lines[1:]
	return rows, nil
}

// OpenCSV reads the delimited sheet at path.
func OpenCSV(path string, comma rune) (*Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f, comma)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}
