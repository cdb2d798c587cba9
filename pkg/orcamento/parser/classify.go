package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
)

// Kind is the classification of a row or free-text line.
type Kind int

const (
	// KindNoise is a row that is none of the other kinds. It is dropped.
	KindNoise Kind = iota
	// KindBlank is a row with no content.
	KindBlank
	// KindHeader is a repeated table header row.
	KindHeader
	// KindStage opens a stage.
	KindStage
	// KindComposition is a priced composition line.
	KindComposition
	// KindResource is a priced resource line.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeader:
		return "header"
	case KindStage:
		return "stage"
	case KindComposition:
		return "composition"
	case KindResource:
		return "resource"
	default:
		return "noise"
	}
}

// columnItemCells is the number of filled cells a column-oriented item row
// carries: type label, code, bank, name, type, unit, quantity, unit price
// and total.
const columnItemCells = 9

// maxUnitRunes is the longest token taken as a unit symbol on free-text lines.
const maxUnitRunes = 5

var (
	indexAtStart   = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\s+(.*)$`)
	tokenSeparator = regexp.MustCompile(`\s{2,}|\t+`)
	trailingNumber = regexp.MustCompile(`(?:^|\s)([-+]?\d{1,3}(?:\.\d{3})*(?:,\d+)?|\d+(?:,\d+)?)(\s*)$`)
	firstWord      = regexp.MustCompile(`^\S+\s*`)
)

// Row is the classification of one sheet row or free-text line.
type Row struct {
	Kind Kind
	// Index is the dotted index written on the line, if any.
	Index string
	// Name is the stage title (stage rows only).
	Name string
	// PriceTotal is the stage total (stage rows only).
	PriceTotal *float64
	// Item holds the priced fields of composition and resource rows.
	Item models.Priced
}

// IsHeaderRow reports whether the joined text of a row is a table header.
func IsHeaderRow(text string) bool {
	low := Fold(text)
	return (strings.Contains(low, "codigo") && strings.Contains(low, "descr") && strings.Contains(low, "total")) ||
		(strings.Contains(low, "tipagem") && strings.Contains(low, "codigo"))
}

// SplitTokens splits a free-text line on runs of two or more spaces or on
// tabs. Empty tokens are discarded.
func SplitTokens(s string) []string {
	var tokens []string
	for _, p := range tokenSeparator.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// IsTabular reports whether tokens describe a priced item: at least four
// tokens, the last three of which are numbers.
func IsTabular(tokens []string) bool {
	if len(tokens) < 4 {
		return false
	}
	for _, tok := range tokens[len(tokens)-3:] {
		if _, ok := ParseNumber(tok); !ok {
			return false
		}
	}
	return true
}

// ParseTabular reads a priced item from tokens, right to left: total, unit
// price and quantity are the last three numeric tokens; a short non-numeric
// token before them is the unit; the first remaining token is the code and
// the rest is the name.
func ParseTabular(tokens []string) models.Priced {
	rest := append([]string(nil), tokens...)

	popNumber := func() *float64 {
		for len(rest) > 0 {
			tok := rest[len(rest)-1]
			rest = rest[:len(rest)-1]
			if f, ok := ParseNumber(tok); ok {
				return &f
			}
		}
		return nil
	}

	var item models.Priced
	item.PriceTotal = popNumber()
	item.PriceUnit = popNumber()
	item.Quantity = popNumber()

	if n := len(rest); n > 0 {
		last := rest[n-1]
		if _, isNum := ParseNumber(last); !isNum && utf8.RuneCountInString(last) <= maxUnitRunes {
			item.UnitSymbol = models.StringPtr(NormalizeUnit(last))
			rest = rest[:n-1]
		}
	}

	if len(rest) > 0 {
		item.Code = models.StringPtr(rest[0])
	}
	if len(rest) > 1 {
		item.Name = models.StringPtr(strings.TrimSpace(strings.Join(rest[1:], " ")))
	}
	return item
}

// ClassifyLine classifies one free-text line.
//
// A line starting with a dotted index is an item when it continues with a
// composition or resource keyword followed by priced tokens, or directly
// with priced tokens (a composition). Otherwise it is a stage, unless it
// starts with a keyword, in which case it is noise. A line without an index
// is an item only when it starts with a keyword followed by priced tokens.
func ClassifyLine(line string) Row {
	if m := indexAtStart.FindStringSubmatch(line); m != nil {
		index, after := m[1], strings.TrimSpace(m[2])

		if kind, rest, ok := cutKeyword(after); ok {
			return tabularRow(kind, index, SplitTokens(rest))
		}

		if tokens := SplitTokens(after); IsTabular(tokens) {
			return tabularRow(KindComposition, index, tokens)
		}

		name, total := splitStageTotal(after)
		return Row{Kind: KindStage, Index: index, Name: name, PriceTotal: total}
	}

	if kind, rest, ok := cutKeyword(strings.TrimSpace(line)); ok {
		return tabularRow(kind, "", SplitTokens(rest))
	}
	return Row{Kind: KindNoise}
}

// ClassifyRow classifies one sheet row.
//
// Rows whose first cell holds "<index> <name>" are read as stages with the
// total taken from the last cell when the first cell has none, unless the
// filled cells joined together form a priced item line. Rows with at
// least nine filled cells are column-oriented items. Anything else is read
// as a free-text line made of the filled cells joined by tabs.
func ClassifyRow(cells []string) Row {
	trimmed := make([]string, len(cells))
	filled := make([]string, 0, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
		if trimmed[i] != "" {
			filled = append(filled, trimmed[i])
		}
	}

	if len(filled) == 0 {
		return Row{Kind: KindBlank}
	}
	if IsHeaderRow(strings.Join(trimmed, "")) {
		return Row{Kind: KindHeader}
	}

	first := trimmed[0]
	if indexAtStart.MatchString(first) {
		row := ClassifyLine(first)
		if row.Kind == KindStage {
			// The remaining cells may carry the unit and prices of an item.
			if joined := ClassifyLine(strings.Join(filled, "\t")); joined.Kind == KindComposition || joined.Kind == KindResource {
				return joined
			}
			if last := trimmed[len(trimmed)-1]; row.PriceTotal == nil && len(trimmed) > 1 && last != "" {
				row.PriceTotal = floatPtr(ParseNumber(last))
			}
			return row
		}
		if row.Kind != KindNoise {
			return row
		}
	}

	if len(filled) >= columnItemCells {
		return columnRow(trimmed)
	}

	return ClassifyLine(strings.Join(filled, "\t"))
}

// columnRow reads a column-oriented item row. Numeric columns that do not
// parse are left unset.
func columnRow(cells []string) Row {
	kind := KindResource
	if strings.Contains(Fold(cells[0]), "comp") {
		kind = KindComposition
	}

	item := models.Priced{
		Code:       models.StringPtr(cells[1]),
		Bank:       models.StringPtr(cells[2]),
		Name:       models.StringPtr(cells[3]),
		Type:       models.StringPtr(cells[4]),
		Quantity:   floatPtr(ParseNumber(cells[6])),
		PriceUnit:  floatPtr(ParseNumber(cells[7])),
		PriceTotal: floatPtr(ParseNumber(cells[8])),
	}
	if cells[5] != "" {
		item.UnitSymbol = models.StringPtr(NormalizeUnit(cells[5]))
	}
	return Row{Kind: kind, Item: item}
}

func tabularRow(kind Kind, index string, tokens []string) Row {
	if !IsTabular(tokens) {
		return Row{Kind: KindNoise}
	}
	item := ParseTabular(tokens)
	item.Index = index
	return Row{Kind: kind, Index: index, Item: item}
}

// cutKeyword strips a leading composition or resource keyword from s.
// "Composição Auxiliar" is treated as a single keyword.
func cutKeyword(s string) (Kind, string, bool) {
	folded := Fold(s)

	var kind Kind
	switch {
	case strings.HasPrefix(folded, "composi"):
		kind = KindComposition
	case strings.HasPrefix(folded, "insumo"):
		kind = KindResource
	default:
		return KindNoise, "", false
	}

	rest := firstWord.ReplaceAllString(s, "")
	if w := firstWord.FindString(rest); Fold(strings.TrimSpace(w)) == "auxiliar" {
		rest = rest[len(w):]
	}
	return kind, rest, true
}

// splitStageTotal peels a trailing number off a stage title.
func splitStageTotal(after string) (string, *float64) {
	name := after
	var total *float64

	if loc := trailingNumber.FindStringSubmatchIndex(after); loc != nil {
		if f, ok := ParseNumber(after[loc[2]:loc[3]]); ok {
			total = &f
			name = strings.TrimRight(after[:loc[0]], " -\t")
		}
	}
	return strings.TrimSpace(name), total
}
