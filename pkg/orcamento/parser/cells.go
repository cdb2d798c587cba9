package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadGrid reads the raw cell values of a sheet. Every row is padded to
// the width of the widest row. Numeric cells are rewritten in the form
// ParseNumber expects, so a stored 1234.5 reads as 1234.5 and not 12345.
func ReadGrid(f *excelize.File, sheetName string) ([][]string, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make([][]string, len(rows))
	for rowIdx, row := range rows {
		cells := make([]string, width)
		leading := true
		for colIdx, value := range row {
			cells[colIdx] = value
			if value == "" {
				continue
			}
			if n, ok := numericCell(f, sheetName, colIdx, rowIdx, value); ok {
				// A number opening the row is an item index like 2.1, not a value.
				if leading {
					cells[colIdx] = strconv.FormatFloat(n, 'f', -1, 64)
				} else {
					cells[colIdx] = FormatNumber(n)
				}
			}
			leading = false
		}
		grid[rowIdx] = cells
	}

	return grid, nil
}

// numericCell reports whether the cell stores a number rather than text.
func numericCell(f *excelize.File, sheetName string, colIdx, rowIdx int, value string) (float64, bool) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return 0, false
	}
	typ, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return 0, false
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		return 0, false
	}
	return finite(n)
}
