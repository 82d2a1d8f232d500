package markup

import "fmt"

// MalformedCellError reports a cell missing a field its type requires.
type MalformedCellError struct {
	// Path locates the cell, e.g. "cell[2].content[0]".
	Path  string
	Type  string
	Field string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("malformed cell at %s: type %q requires %q", e.Path, e.Type, e.Field)
}
