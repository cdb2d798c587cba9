package output

import (
	"fmt"
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
)

// DefaultTitle is the heading used when an estimate has no name.
const DefaultTitle = "Obra"

// maxHeadingLevel is the deepest Markdown heading.
const maxHeadingLevel = 6

var itemColumns = []string{"Tipagem", "Código", "Banco", "Descrição", "Tipo", "Und", "Quant.", "Valor Unit", "Total"}

// Markdown renders an estimate as a Markdown document. Stages become
// headings one level below their parent, and each run of priced items
// becomes a table. Composition children are listed right after their
// composition.
func Markdown(est *models.Estimate) string {
	var b strings.Builder

	title := DefaultTitle
	if est.Name != nil && strings.TrimSpace(*est.Name) != "" {
		title = strings.TrimSpace(*est.Name)
	}
	fmt.Fprintf(&b, "# %s\n", title)
	if est.BdiGlobal != nil {
		fmt.Fprintf(&b, "\n**BDI global:** %s\n", FormatPercent(*est.BdiGlobal))
	}

	writeItems(&b, est.Items, 2)
	return b.String()
}

func writeItems(b *strings.Builder, items []models.Item, level int) {
	inTable := false

	for _, item := range items {
		switch it := item.(type) {
		case *models.Stage:
			inTable = false
			writeStageHeading(b, it, level)
			writeItems(b, it.Items, level+1)
		case *models.Composition:
			if !inTable {
				writeTableHeader(b, itemColumns)
				inTable = true
			}
			writeItemRow(b, "Composição", it.Priced)
			for _, child := range it.Children {
				writeItemRow(b, "Insumo", child.Priced)
			}
		case *models.Resource:
			if !inTable {
				writeTableHeader(b, itemColumns)
				inTable = true
			}
			writeItemRow(b, "Insumo", it.Priced)
		}
	}
}

func writeStageHeading(b *strings.Builder, s *models.Stage, level int) {
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}

	parts := make([]string, 0, 2)
	if s.Index != "" {
		parts = append(parts, s.Index)
	}
	if s.Name != nil && *s.Name != "" {
		parts = append(parts, *s.Name)
	}
	heading := strings.Join(parts, " ")
	if s.PriceTotal != nil {
		heading += " — " + FormatMoney(*s.PriceTotal)
	}

	fmt.Fprintf(b, "\n%s %s\n", strings.Repeat("#", level), heading)
}

func writeItemRow(b *strings.Builder, label string, p models.Priced) {
	writeTableRow(b, []string{
		label,
		text(p.Code),
		text(p.Bank),
		text(p.Name),
		text(p.Type),
		text(p.UnitSymbol),
		quantity(p.Quantity),
		money(p.PriceUnit),
		money(p.PriceTotal),
	})
}

func writeTableHeader(b *strings.Builder, columns []string) {
	b.WriteString("\n")
	writeTableRow(b, columns)

	b.WriteString("|")
	for range columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
}

func writeTableRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func quantity(p *float64) string {
	if p == nil {
		return ""
	}
	return parser.FormatNumber(*p)
}

func money(p *float64) string {
	if p == nil {
		return ""
	}
	return FormatMoney(*p)
}
