package parser

import (
	"fmt"
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses a range such as "A1:D10", "$A$1:$D$10" or "Sheet1!A1:D10".
// It returns the sheet name (empty when absent) and the area.
func ParseRange(ref string) (string, *models.Area, error) {
	ref = strings.TrimSpace(ref)

	var sheetName string
	rangeStr := ref
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheetName = strings.Trim(ref[:idx], "'")
		rangeStr = ref[idx+1:]
	}

	// Remove $ signs
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("%w: range %q", ErrInvalidAddress, ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: range %q: %v", ErrInvalidAddress, ref, err)
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: range %q: %v", ErrInvalidAddress, ref, err)
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return sheetName, &models.Area{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}, nil
}
