package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// OpenXLSX reads a worksheet of the Excel workbook at path. An empty sheet
// selects the first worksheet.
func OpenXLSX(path, sheet string) (*Rows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%s: sheet %q not found (available: %s)", path, sheet, strings.Join(sheets, ", "))
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}

	rows, err := fromGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return rows, nil
}
