// Package parser turns the cell grid of an estimate sheet into an estimate tree.
package parser

// unitSymbols maps the unit spellings found in estimate sheets to their
// display form. Lookup is exact and case-sensitive.
var unitSymbols = map[string]string{
	"m2": "m²", "M2": "m²", "m^2": "m²", "M^2": "m²",
	"m3": "m³", "M3": "m³",
	"dia": "DIA", "Dia": "DIA", "DIA": "DIA",
	"un.": "UN", "Un.": "UN", "UN.": "UN",
	"un": "un", "Un": "un",
	"h": "H", "H": "H",
	"l": "l", "L": "l",
	"kg": "Kg", "KG": "Kg",
	"vb": "VB", "Vb": "VB", "VB": "VB",
	"m": "m", "M": "M",
	"m²": "m²", "m³": "m³",
}

// NormalizeUnit returns the display form of a unit symbol. Unknown symbols
// are returned unchanged.
func NormalizeUnit(token string) string {
	if u, ok := unitSymbols[token]; ok {
		return u
	}
	return token
}
