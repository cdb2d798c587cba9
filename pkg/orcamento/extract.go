package orcamento

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
)

// Result is a parsed estimate with the sheet it came from.
type Result struct {
	BookName  string           `json:"book_name"`
	SheetName string           `json:"sheet_name"`
	Estimate  *models.Estimate `json:"estimate"`
	Stats     parser.Stats     `json:"stats"`
}

// ParseFile parses the estimate sheet of a workbook or CSV file.
func ParseFile(path string, opts Options) (*Result, error) {
	f, err := openPath(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseReader(f, path, opts)
}

// ParseReader parses the estimate sheet of a workbook or CSV read from r.
// name is used to detect the format and to name the book.
func ParseReader(r io.Reader, name string, opts Options) (*Result, error) {
	book, err := openWorkbook(r, name)
	if err != nil {
		return nil, NewParseError(name, "", "open", err)
	}
	defer book.Close()

	sheetName, err := selectSheet(book.SheetList(), opts.SheetName)
	if err != nil {
		return nil, NewParseError(name, opts.SheetName, "select", err)
	}

	rows, err := book.Rows(sheetName)
	if err != nil {
		return nil, NewParseError(name, sheetName, "read", err)
	}

	est, stats := parser.Parse(rows)
	return &Result{
		BookName:  filepath.Base(name),
		SheetName: sheetName,
		Estimate:  est,
		Stats:     stats,
	}, nil
}

// ReadWorkbook reads every sheet of a workbook or CSV file as a raw grid.
func ReadWorkbook(path string) (*models.WorkbookData, error) {
	f, err := openPath(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadWorkbookReader(f, path)
}

// ReadWorkbookReader reads every sheet of a workbook or CSV read from r.
func ReadWorkbookReader(r io.Reader, name string) (*models.WorkbookData, error) {
	book, err := openWorkbook(r, name)
	if err != nil {
		return nil, NewParseError(name, "", "open", err)
	}
	defer book.Close()

	wb := &models.WorkbookData{BookName: filepath.Base(name)}
	for _, sheetName := range book.SheetList() {
		rows, err := book.Rows(sheetName)
		if err != nil {
			return nil, NewParseError(name, sheetName, "read", err)
		}
		wb.Sheets = append(wb.Sheets, models.SheetData{Name: sheetName, Rows: rows})
	}
	return wb, nil
}

func openPath(path string) (*os.File, error) {
	if _, err := detectFormat(path); err != nil {
		return nil, NewParseError(path, "", "open", err)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewParseError(path, "", "open", ErrFileNotFound)
	}
	if err != nil {
		return nil, NewParseError(path, "", "open", err)
	}
	return f, nil
}

func selectSheet(names []string, want string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoSheets
	}
	if want == "" {
		return parser.ChooseSheet(names), nil
	}
	for _, name := range names {
		if name == want {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSheetNotFound, want)
}
