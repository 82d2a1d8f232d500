// Package convert turns spreadsheet cells into Exhibit items.
package convert

import (
	"sort"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

// Flatten groups cells into items keyed by the legend row.
//
// The legend row is the row of the first cell. A new item starts whenever a
// cell's row is greater than the last row seen, starting from the row after
// the legend, and the last item is always appended, even when empty. An
// empty input yields an empty list.
func Flatten(cells []models.SpreadsheetCell, opts Options) (models.ItemList, error) {
	if len(cells) == 0 {
		return models.ItemList{}, nil
	}
	if opts.SortRows {
		cells = sortedByRow(cells)
	}

	legendRow := cells[0].Row
	legend := make(map[string]string)
	var missing []CellPosition

	items := models.ItemList{}
	item := models.Item{}
	lastRow := legendRow + 1

	flush := func() {
		if opts.SkipEmptyItems && len(item) == 0 {
			return
		}
		items = append(items, item)
	}

	for _, cell := range cells {
		if cell.Row == legendRow {
			legend[cell.Column] = cell.Content
			continue
		}
		if cell.Row > lastRow {
			lastRow = cell.Row
			flush()
			item = models.Item{}
		}

		key, ok := legend[cell.Column]
		if !ok {
			missing = append(missing, CellPosition{Row: cell.Row, Column: cell.Column})
			key = cell.Column
		}
		item[key] = cell.Content
	}
	flush()

	if opts.Strict && len(missing) > 0 {
		return nil, &MissingLegendError{LegendRow: legendRow, Cells: missing}
	}
	return items, nil
}

// Dataset flattens cells into the Exhibit data file format.
func Dataset(cells []models.SpreadsheetCell, opts Options) (*models.Dataset, error) {
	items, err := Flatten(cells, opts)
	if err != nil {
		return nil, err
	}
	return &models.Dataset{Items: items}, nil
}

// sortedByRow returns a copy of cells ordered by row, keeping feed order
// within a row.
func sortedByRow(cells []models.SpreadsheetCell) []models.SpreadsheetCell {
	out := make([]models.SpreadsheetCell, len(cells))
	copy(out, cells)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Row < out[j].Row
	})
	return out
}
