package exhibit

import (
	"errors"
	"fmt"
)

// ErrUnsupportedSource indicates a source kind that cannot be read.
var ErrUnsupportedSource = errors.New("unsupported source")

// ErrSheetNotFound indicates a workbook without the requested sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// SourceError represents an error while reading a spreadsheet source.
type SourceError struct {
	Source string
	Kind   SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read %s source %q: %v", e.Kind, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source string, kind SourceKind, err error) *SourceError {
	return &SourceError{
		Source: source,
		Kind:   kind,
		Err:    err,
	}
}
