package parser

import "strings"

// TrimGrid cuts a grid down to the bounding box of its non-empty cells and
// pads every row to the width of that box. Cell values are trimmed. It
// returns nil when the grid has no content.
func TrimGrid(rows [][]string) [][]string {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return nil
	}

	out := make([][]string, 0, maxRow-minRow+1)
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		row := rows[rowIdx]
		cells := make([]string, maxCol-minCol+1)
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			cells[colIdx-minCol] = strings.TrimSpace(row[colIdx])
		}
		out = append(out, cells)
	}
	return out
}

// findDataBounds finds the bounding box of non-empty cells. All bounds are
// -1 for an empty grid.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
