package orcamento

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
	"github.com/xuri/excelize/v2"
)

// workbook is the sheet-level view shared by the readable file formats.
type workbook interface {
	SheetList() []string
	Rows(sheetName string) ([][]string, error)
	Close() error
}

type xlsxBook struct {
	f *excelize.File
}

func (b *xlsxBook) SheetList() []string { return b.f.GetSheetList() }

func (b *xlsxBook) Rows(sheetName string) ([][]string, error) {
	return parser.ReadGrid(b.f, sheetName)
}

func (b *xlsxBook) Close() error { return b.f.Close() }

// csvBook holds a CSV file as a workbook with one sheet named after the file.
type csvBook struct {
	name string
	rows [][]string
}

func (b *csvBook) SheetList() []string { return []string{b.name} }

func (b *csvBook) Rows(sheetName string) ([][]string, error) {
	if sheetName != b.name {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	return b.rows, nil
}

func (b *csvBook) Close() error { return nil }

func openWorkbook(r io.Reader, name string) (workbook, error) {
	fmtKind, err := detectFormat(name)
	if err != nil {
		return nil, err
	}

	switch fmtKind {
	case formatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		base := filepath.Base(name)
		return &csvBook{name: strings.TrimSuffix(base, filepath.Ext(base)), rows: rows}, nil
	default:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return &xlsxBook{f: f}, nil
	}
}
