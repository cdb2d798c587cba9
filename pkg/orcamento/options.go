// Package orcamento reads construction estimates from spreadsheet files.
package orcamento

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how an upload is turned into Markdown.
type Mode string

const (
	// ModeSemantic parses the estimate tree and renders it.
	ModeSemantic Mode = "semantic"
	// ModeRaw renders the analytic sheets as plain tables.
	ModeRaw Mode = "raw"
)

// ParseMode reads a mode name. An empty name is ModeSemantic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSemantic:
		return ModeSemantic, nil
	case ModeRaw:
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Options configures parsing.
type Options struct {
	// SheetName forces the worksheet to parse. When empty the analytic
	// sheet is chosen by name.
	SheetName string
}

// DefaultOptions returns default parsing options.
func DefaultOptions() Options {
	return Options{}
}

// SupportedExtensions lists the file extensions that can be read.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

type format int

const (
	formatXLSX format = iota + 1
	formatCSV
)

func detectFormat(name string) (format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx", ".xlsm":
		return formatXLSX, nil
	case ".csv":
		return formatCSV, nil
	case "":
		return 0, fmt.Errorf("%w: file has no extension", ErrUnsupportedFormat)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// IsSupported reports whether the file name has a readable extension.
func IsSupported(name string) bool {
	_, err := detectFormat(name)
	return err == nil
}
