package convert

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingLegendEntry indicates a data cell whose column has no header.
var ErrMissingLegendEntry = errors.New("missing legend entry")

// CellPosition identifies one spreadsheet cell.
type CellPosition struct {
	Row    int
	Column string
}

func (p CellPosition) String() string {
	return fmt.Sprintf("%s%d", p.Column, p.Row)
}

// MissingLegendError lists every data cell whose column has no legend entry.
type MissingLegendError struct {
	LegendRow int
	Cells     []CellPosition
}

func (e *MissingLegendError) Error() string {
	refs := make([]string, len(e.Cells))
	for i, c := range e.Cells {
		refs[i] = c.String()
	}
	return fmt.Sprintf("%v in legend row %d for cells %s", ErrMissingLegendEntry, e.LegendRow, strings.Join(refs, ", "))
}

func (e *MissingLegendError) Unwrap() error {
	return ErrMissingLegendEntry
}
