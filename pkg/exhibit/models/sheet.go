package models

// SpreadsheetCell is one labeled cell of a spreadsheet source.
type SpreadsheetCell struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Column is the column label (e.g. "A", "AB").
	Column string `json:"column"`
	// Content is the text value of the cell.
	Content string `json:"content"`
}

// Item maps header text to cell content for one spreadsheet row.
type Item map[string]string

// ItemList is an ordered list of items, in row order.
type ItemList []Item

// Dataset is the data file format read by the Exhibit library.
type Dataset struct {
	// Items contains one entry per data row.
	Items ItemList `json:"items"`
}
