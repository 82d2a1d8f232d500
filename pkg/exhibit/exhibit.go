package exhibit

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/convert"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/fetch"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/markup"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/parser"
	"github.com/xuri/excelize/v2"
)

// Loader opens documents by reference. *fetch.Client implements it.
type Loader interface {
	Open(ctx context.Context, ref string) (io.Reader, error)
	GetJSON(ctx context.Context, ref string, v any) error
}

var _ Loader = (*fetch.Client)(nil)

// Convert reads a spreadsheet source and flattens it into a dataset.
func Convert(ctx context.Context, loader Loader, source string, opts Options) (*models.Dataset, error) {
	cells, err := ReadCells(ctx, loader, source, opts)
	if err != nil {
		return nil, err
	}
	return convert.Dataset(cells, opts.Flatten)
}

// ConvertFeed flattens a cell feed document.
func ConvertFeed(r io.Reader, opts convert.Options) (*models.Dataset, error) {
	cells, err := parser.DecodeFeed(r)
	if err != nil {
		return nil, err
	}
	return convert.Dataset(cells, opts)
}

// ReadCells reads the labeled cells of a spreadsheet source.
func ReadCells(ctx context.Context, loader Loader, source string, opts Options) ([]models.SpreadsheetCell, error) {
	kind := opts.KindOf(source)

	var (
		cells []models.SpreadsheetCell
		err   error
	)
	switch kind {
	case SourceSpreadsheetURL:
		var feedURL string
		if feedURL, err = parser.FeedURL(source); err == nil {
			cells, err = readFeed(ctx, loader, feedURL)
		}
	case SourceFeed:
		cells, err = readFeed(ctx, loader, source)
	case SourceWorkbook:
		cells, err = ReadWorkbook(source, opts)
	default:
		err = ErrUnsupportedSource
	}
	if err != nil {
		return nil, NewSourceError(source, kind, err)
	}
	return cells, nil
}

func readFeed(ctx context.Context, loader Loader, ref string) ([]models.SpreadsheetCell, error) {
	r, err := loader.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	return parser.DecodeFeed(r)
}

// ReadWorkbook reads the labeled cells of one sheet of an xlsx workbook.
func ReadWorkbook(path string, opts Options) ([]models.SpreadsheetCell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := opts.Sheet
	var area *models.Area
	if opts.Range != "" {
		var rangeSheet string
		rangeSheet, area, err = parser.ParseRange(opts.Range)
		if err != nil {
			return nil, err
		}
		if sheetName == "" {
			sheetName = rangeSheet
		}
	}

	sheetList := f.GetSheetList()
	if sheetName == "" {
		if len(sheetList) == 0 {
			return nil, ErrSheetNotFound
		}
		sheetName = sheetList[0]
	} else if !slices.Contains(sheetList, sheetName) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	return parser.ReadSheet(f, sheetName, area)
}

// LoadLayout fetches and decodes a layout document.
func LoadLayout(ctx context.Context, loader Loader, ref string) (*models.Layout, error) {
	var layout models.Layout
	if err := loader.GetJSON(ctx, ref, &layout); err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return &layout, nil
}

// RenderWidget loads the layout named by s and renders the widget fragment,
// linked to the data file of s. With strict set, malformed cells fail the
// render instead of rendering as empty fields.
func RenderWidget(ctx context.Context, loader Loader, s models.Settings, strict bool) (string, error) {
	layout, err := LoadLayout(ctx, loader, s.LayoutURL)
	if err != nil {
		return "", err
	}
	if strict {
		if err := markup.ValidateLayout(*layout); err != nil {
			return "", err
		}
	}
	return markup.RenderLayout(*layout).HTML(s.DataURL), nil
}
