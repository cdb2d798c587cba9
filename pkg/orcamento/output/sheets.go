package output

import (
	"fmt"
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
)

// EmptySheetsMarkdown is returned when no selected sheet holds data.
const EmptySheetsMarkdown = "# (Sem dados nas abas selecionadas)\n"

// SheetsMarkdown renders worksheets as Markdown tables, one section per
// sheet, each trimmed to its data bounds. Sheets whose name mentions
// "analítico" are rendered; when none does, every sheet is.
func SheetsMarkdown(wb *models.WorkbookData) string {
	selected := AnalyticSheets(wb.Sheets)

	var sections []string
	for _, sheet := range selected {
		grid := parser.TrimGrid(sheet.Rows)
		if grid == nil {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n", sheet.Name)
		writeTableHeader(&b, grid[0])
		for _, row := range grid[1:] {
			writeTableRow(&b, row)
		}
		sections = append(sections, b.String())
	}

	if len(sections) == 0 {
		return EmptySheetsMarkdown
	}
	return strings.Join(sections, "\n")
}

// AnalyticSheets returns the sheets whose folded name contains "analitic",
// or all sheets when none does.
func AnalyticSheets(sheets []models.SheetData) []models.SheetData {
	var out []models.SheetData
	for _, s := range sheets {
		if strings.Contains(parser.Fold(s.Name), "analitic") {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return sheets
	}
	return out
}
