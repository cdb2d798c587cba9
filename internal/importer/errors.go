package importer

import "errors"

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for a zero-byte upload.
	ErrEmptyFile = errors.New("empty file")
	// ErrPDFNotSupported is returned when a PDF is sent for Markdown conversion.
	ErrPDFNotSupported = errors.New("pdf conversion not supported")
	// ErrInvalidImportID is returned when an import id is not a UUID.
	ErrInvalidImportID = errors.New("invalid import id")
	// ErrMarkdownNotFound is returned when no Markdown file exists for an id.
	ErrMarkdownNotFound = errors.New("markdown file not found")
)
