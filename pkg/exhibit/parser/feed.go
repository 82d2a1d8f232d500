package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

// ErrNoSpreadsheetKey indicates a spreadsheet URL without a document key.
var ErrNoSpreadsheetKey = errors.New("no spreadsheet key in url")

const feedURLFormat = "https://spreadsheets.google.com/feeds/cells/%s/od6/public/basic?alt=json"

// FeedURL converts a Google Spreadsheet URL into the URL of its public cell
// feed. The key is read from a "key=" parameter, or from the path segment
// following "/d/".
func FeedURL(spreadsheetURL string) (string, error) {
	key := ""
	if idx := strings.LastIndex(spreadsheetURL, "key="); idx >= 0 {
		key = spreadsheetURL[idx+len("key="):]
		key = strings.SplitN(key, "#", 2)[0]
		key = strings.SplitN(key, "&", 2)[0]
	} else if idx := strings.Index(spreadsheetURL, "/d/"); idx >= 0 {
		key = spreadsheetURL[idx+len("/d/"):]
		if end := strings.IndexAny(key, "/?#"); end >= 0 {
			key = key[:end]
		}
	}
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrNoSpreadsheetKey, spreadsheetURL)
	}
	return fmt.Sprintf(feedURLFormat, key), nil
}

type feedText struct {
	T string `json:"$t"`
}

type feedEntry struct {
	Title   feedText `json:"title"`
	Content feedText `json:"content"`
}

type cellFeed struct {
	Feed struct {
		Entry []feedEntry `json:"entry"`
	} `json:"feed"`
}

// DecodeFeed reads a spreadsheet cell feed and returns its cells in feed order.
func DecodeFeed(r io.Reader) ([]models.SpreadsheetCell, error) {
	var feed cellFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode cell feed: %w", err)
	}

	cells := make([]models.SpreadsheetCell, 0, len(feed.Feed.Entry))
	for i, entry := range feed.Feed.Entry {
		col, row, err := ParseAddress(entry.Title.T)
		if err != nil {
			return nil, fmt.Errorf("feed entry %d: %w", i, err)
		}
		cells = append(cells, models.SpreadsheetCell{
			Row:     row,
			Column:  col,
			Content: entry.Content.T,
		})
	}
	return cells, nil
}
