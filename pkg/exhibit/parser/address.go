// Package parser reads spreadsheet sources into labeled cells.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidAddress indicates a cell label or range that cannot be parsed.
var ErrInvalidAddress = errors.New("invalid cell address")

// ParseAddress splits a cell label such as "B12" into its column letters and
// 1-based row number. Column letters are upper-cased.
func ParseAddress(label string) (string, int, error) {
	col, row, err := excelize.SplitCellName(strings.TrimSpace(label))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidAddress, label)
	}
	return strings.ToUpper(col), row, nil
}
