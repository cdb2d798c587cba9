package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const galpaoCSV = "Obra: Galpão;;;;;;;;\n" +
	"BDI 20%;;;;;;;;\n" +
	"1 Cobertura;;;;;;;;1.200,00\n" +
	"Composição;C7;SINAPI;Telha;Serviço;m2;100;12,00;1.200,00\n"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	outputPath, pretty, format, sheetName, sheetsDir = "", false, "json", "", ""

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "galpao.csv")
	if err := os.WriteFile(path, []byte(galpaoCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseJSON(t *testing.T) {
	out, stderr, err := runCLI(t, "parse", writeInput(t))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !strings.HasPrefix(out, `{"name":"Galpão","bdi_global":0.2,"estimate_items":[`) {
		t.Errorf("Unexpected JSON output: %s", out)
	}
	if !strings.Contains(stderr, "row(s) not recognized") {
		t.Errorf("Expected dropped rows on stderr, got %q", stderr)
	}
}

func TestParseMarkdownToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.md")

	if _, _, err := runCLI(t, "parse", writeInput(t), "--format", "markdown", "-o", dest); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Galpão\n") {
		t.Errorf("Unexpected Markdown: %s", data)
	}
}

func TestParseInvalidFormat(t *testing.T) {
	if _, _, err := runCLI(t, "parse", writeInput(t), "--format", "yaml"); err == nil {
		t.Error("Expected error for invalid format")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, _, err := runCLI(t, "parse", filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSheets(t *testing.T) {
	out, _, err := runCLI(t, "sheets", writeInput(t))
	if err != nil {
		t.Fatalf("sheets failed: %v", err)
	}
	if !strings.HasPrefix(out, "# galpao\n") {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestSheetsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sheets")

	out, _, err := runCLI(t, "sheets", writeInput(t), "--sheets-dir", dir)
	if err != nil {
		t.Fatalf("sheets failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no stdout with --sheets-dir, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "galpao.md")); err != nil {
		t.Errorf("Expected per-sheet file: %v", err)
	}
}
