package parser

import (
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheet reads the non-empty cells of a sheet in row-major order.
// When area is non-nil only cells inside it are returned.
func ReadSheet(f *excelize.File, sheetName string, area *models.Area) ([]models.SpreadsheetCell, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var result []models.SpreadsheetCell
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1 // 1-based row index
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			colNum := colIdx + 1
			if area != nil && !area.Contains(rowNum, colNum) {
				continue
			}
			colName, err := excelize.ColumnNumberToName(colNum)
			if err != nil {
				return nil, err
			}
			result = append(result, models.SpreadsheetCell{
				Row:     rowNum,
				Column:  colName,
				Content: cellValue,
			})
		}
	}

	return result, nil
}
