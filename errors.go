package compscreen

import "errors"

// Sentinel errors returned by the ingestion layer. The screening engine
// itself absorbs data problems into graceful degradation and never returns
// an error.
var (
	// ErrEmptyFile indicates the source file contains no rows at all
	ErrEmptyFile = errors.New("compscreen: empty file")

	// ErrUnsupportedFormat indicates an unsupported file extension
	ErrUnsupportedFormat = errors.New("compscreen: unsupported file format")

	// ErrNoHeader indicates the source file has no usable header row
	ErrNoHeader = errors.New("compscreen: missing header row")

	// errDuplicateColumnName is returned when a file repeats a column name
	errDuplicateColumnName = errors.New("duplicate column name")
)
