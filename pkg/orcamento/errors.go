package orcamento

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input could not be read as its extension claims.
var ErrInvalidFormat = errors.New("invalid file format")

// ErrUnsupportedFormat indicates the file extension cannot be read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNoSheets indicates the workbook has no worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidMode indicates an unknown Markdown mode.
var ErrInvalidMode = errors.New("invalid mode")

// ErrInvalidEstimate indicates a parsed estimate failed validation.
var ErrInvalidEstimate = errors.New("invalid estimate")

// ParseError represents an error while reading a file.
type ParseError struct {
	Path      string
	SheetName string
	Step      string // "open", "read", "select"
	Err       error
}

func (e *ParseError) Error() string {
	if e.SheetName != "" {
		return fmt.Sprintf("parse error in %s, sheet %q (%s): %v", e.Path, e.SheetName, e.Step, e.Err)
	}
	return fmt.Sprintf("parse error in %s (%s): %v", e.Path, e.Step, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(path, sheetName, step string, err error) *ParseError {
	return &ParseError{
		Path:      path,
		SheetName: sheetName,
		Step:      step,
		Err:       err,
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError lists the fields of an estimate that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
		}
	}
	return fmt.Sprintf("%v: %s", ErrInvalidEstimate, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEstimate
}
