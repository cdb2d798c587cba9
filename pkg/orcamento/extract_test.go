package orcamento

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("Failed to create sheet: %v", err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("Failed to write row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "orcamento.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func analyticRows() [][]any {
	return [][]any{
		{"Obra: Escola Municipal"},
		{"BDI: 22,5%"},
		{"Tipagem", "Código", "Banco", "Descrição", "Tipo", "Und", "Quant.", "Valor Unit", "Total"},
		{"1 Fundação", "", "", "", "", "", "", "", 4500},
		{"Composição", "C1", "SINAPI", "Estaca", "Serviço", "m", 30, 150, 4500},
		{"Insumo", "I1", "SINAPI", "Concreto", "Material", "m3", 2.5, 600, 1500},
	}
}

func TestParseFile(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Capa":      {{"Resumo"}},
		"Analítico": analyticRows(),
	}, "Capa", "Analítico")

	result, err := ParseFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if result.BookName != "orcamento.xlsx" {
		t.Errorf("Expected book name 'orcamento.xlsx', got %q", result.BookName)
	}
	if result.SheetName != "Analítico" {
		t.Errorf("Expected sheet 'Analítico', got %q", result.SheetName)
	}

	est := result.Estimate
	if est.Name == nil || *est.Name != "Escola Municipal" {
		t.Errorf("Expected name 'Escola Municipal', got %v", est.Name)
	}
	if est.BdiGlobal == nil || *est.BdiGlobal != 0.225 {
		t.Errorf("Expected BDI 0.225, got %v", est.BdiGlobal)
	}

	stage, ok := est.Items[0].(*models.Stage)
	if !ok || stage.PriceTotal == nil || *stage.PriceTotal != 4500 {
		t.Fatalf("Expected stage with total 4500, got %#v", est.Items[0])
	}
	comp := stage.Items[0].(*models.Composition)
	if comp.Index != "1.1" || *comp.Quantity != 30 {
		t.Errorf("Unexpected composition: index=%s", comp.Index)
	}
	if len(comp.Children) != 1 || *comp.Children[0].Quantity != 2.5 || *comp.Children[0].UnitSymbol != "m³" {
		t.Errorf("Expected resource with quantity 2.5 in m³")
	}
	if result.Stats.Compositions != 1 || result.Stats.Resources != 1 {
		t.Errorf("Unexpected stats: %+v", result.Stats)
	}
}

func TestParseFileSheetOption(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Analitico": analyticRows(),
		"Revisão":   {{"1 Única"}},
	}, "Analitico", "Revisão")

	result, err := ParseFile(path, Options{SheetName: "Revisão"})
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if result.SheetName != "Revisão" || len(result.Estimate.Items) != 1 {
		t.Errorf("Expected the forced sheet to be parsed, got %q", result.SheetName)
	}

	_, err = ParseFile(path, Options{SheetName: "Nope"})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Step != "select" {
		t.Errorf("Expected a ParseError at the select step, got %v", err)
	}
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(broken, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing file", filepath.Join(dir, "missing.xlsx"), ErrFileNotFound},
		{"legacy xls", filepath.Join(dir, "old.xls"), ErrUnsupportedFormat},
		{"pdf", filepath.Join(dir, "doc.pdf"), ErrUnsupportedFormat},
		{"broken workbook", broken, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.path, DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseReaderCSV(t *testing.T) {
	data := strings.Join([]string{
		"Obra: Galpão;;;;;;;;",
		"BDI 20%;;;;;;;;",
		"1 Cobertura;;;;;;;;1.200,00",
		"Composição;C7;SINAPI;Telha;Serviço;m2;100;12,00;1.200,00",
	}, "\r\n")

	result, err := ParseReader(strings.NewReader(data), "galpao.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if result.SheetName != "galpao" {
		t.Errorf("Expected sheet 'galpao', got %q", result.SheetName)
	}
	est := result.Estimate
	if est.Name == nil || *est.Name != "Galpão" {
		t.Errorf("Expected name 'Galpão', got %v", est.Name)
	}
	stage := est.Items[0].(*models.Stage)
	if *stage.PriceTotal != 1200 || stage.Items[0].ItemIndex() != "1.1" {
		t.Errorf("Unexpected stage: %#v", stage)
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  [][]string
	}{
		{
			"comma delimiter",
			[]byte("a,b,c\nd\n"),
			[][]string{{"a", "b", "c"}, {"d", "", ""}},
		},
		{
			"semicolon with decimal commas",
			[]byte("Total;10,5\n"),
			[][]string{{"Total", "10,5"}},
		},
		{
			"byte order mark",
			append([]byte{0xEF, 0xBB, 0xBF}, []byte("x;y\n")...),
			[][]string{{"x", "y"}},
		},
		{
			"windows-1252",
			[]byte("Funda\xe7\xe3o;1\n"),
			[][]string{{"Fundação", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readCSV(bytes.NewReader(tt.input))
			if err != nil {
				t.Fatalf("readCSV failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d rows, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if strings.Join(got[i], "|") != strings.Join(tt.want[i], "|") {
					t.Errorf("Row %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Capa":      {{"Resumo", 10}},
		"Analítico": analyticRows(),
	}, "Capa", "Analítico")

	wb, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}

	if got := strings.Join(wb.SheetNames(), ","); got != "Capa,Analítico" {
		t.Errorf("Expected sheets in file order, got %s", got)
	}
	capa, _ := wb.Sheet("Capa")
	if len(capa.Rows) != 1 || capa.Rows[0][1] != "10" {
		t.Errorf("Unexpected cover rows: %v", capa.Rows)
	}
}

func TestSelectSheet(t *testing.T) {
	if _, err := selectSheet(nil, ""); !errors.Is(err, ErrNoSheets) {
		t.Errorf("Expected ErrNoSheets, got %v", err)
	}
	if got, _ := selectSheet([]string{"Plan1", "analitico"}, ""); got != "analitico" {
		t.Errorf("Expected 'analitico', got %q", got)
	}
}
