package parser

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Composição", "composicao"},
		{"COMPOSICAO", "composicao"},
		{"Planilha Orçamentária Analítica", "planilha orcamentaria analitica"},
		{"Insumo", "insumo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
