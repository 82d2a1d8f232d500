// Package exhibit converts spreadsheets into Exhibit data files and renders
// Exhibit layouts.
package exhibit

import (
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/convert"
)

// SourceKind identifies how a spreadsheet source is read.
type SourceKind string

const (
	// SourceAuto picks the kind from the source reference.
	SourceAuto SourceKind = ""
	// SourceSpreadsheetURL is a Google Spreadsheet URL; its cell feed is fetched.
	SourceSpreadsheetURL SourceKind = "spreadsheet"
	// SourceFeed is a cell feed document, as a URL or a local file.
	SourceFeed SourceKind = "feed"
	// SourceWorkbook is a local xlsx workbook.
	SourceWorkbook SourceKind = "xlsx"
)

// Options configures conversion.
type Options struct {
	// Kind selects the source reader. SourceAuto detects it.
	Kind SourceKind
	// Sheet names the workbook sheet to read. Empty means the first sheet.
	Sheet string
	// Range restricts a workbook to an area such as "A1:D10".
	Range string
	// Flatten configures how cells are grouped into items.
	Flatten convert.Options
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Kind:    SourceAuto,
		Flatten: convert.DefaultOptions(),
	}
}

// KindOf returns the configured kind, or the kind detected from source.
func (o Options) KindOf(source string) SourceKind {
	if o.Kind != SourceAuto {
		return o.Kind
	}
	return DetectKind(source)
}

// DetectKind guesses the source kind from its reference.
func DetectKind(source string) SourceKind {
	lower := strings.ToLower(strings.TrimSpace(source))
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return SourceWorkbook
	case strings.Contains(lower, "docs.google.com/spreadsheets"),
		strings.Contains(lower, "spreadsheets.google.com") && !strings.Contains(lower, "/feeds/"):
		return SourceSpreadsheetURL
	default:
		return SourceFeed
	}
}
