package markup

import (
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"golang.org/x/net/html"
)

// Regions holds the rendered parts of a widget, keyed by where the host page
// places them.
type Regions struct {
	// TopPanels is the facet table row.
	TopPanels string `json:"topPanels"`
	// Views holds the thumbnail view followed by the tile view.
	Views string `json:"views"`
	// DetailedView is the detail table row.
	DetailedView string `json:"detailedView"`
}

// RenderLayout renders every region of a layout document.
func RenderLayout(layout models.Layout) Regions {
	return Regions{
		TopPanels:    renderTopPanels(layout.TopPanels),
		Views:        renderThumbnailView(layout.ThumbnailView) + renderTileView(layout.DetailedView),
		DetailedView: renderDetailRow(layout.DetailedView.Cell),
	}
}

// HTML assembles the regions into a complete widget fragment. When dataURL
// is non-empty the fragment starts with the data link.
func (r Regions) HTML(dataURL string) string {
	var b strings.Builder
	if dataURL != "" {
		b.WriteString(DataLink(dataURL))
		b.WriteString("\n")
	}
	b.WriteString(`<table id="top_panel_table">`)
	b.WriteString(r.TopPanels)
	b.WriteString("</table>\n")
	b.WriteString(`<div id="view_holder">`)
	b.WriteString(r.Views)
	b.WriteString("</div>\n")
	b.WriteString(`<table id="detailed_view">`)
	b.WriteString(r.DetailedView)
	b.WriteString("</table>\n")
	return b.String()
}

// DataLink renders the link element that points the Exhibit library at a
// data file.
func DataLink(dataURL string) string {
	return `<link href="` + html.EscapeString(dataURL) + `" type="application/json" rel="exhibit-data" />`
}

func renderTopPanels(facets []models.Facet) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, f := range facets {
		b.WriteString(`<td><div ex:role="facet" ex:expression="`)
		b.WriteString(binding(f.Expression))
		b.WriteString(`" ex:facetLabel="`)
		b.WriteString(html.EscapeString(f.Label))
		b.WriteString(`"></div></td>`)
	}
	b.WriteString("</tr>")
	return b.String()
}

func renderThumbnailView(v models.View) string {
	var b strings.Builder
	b.WriteString(`<div id="thumbnail_view" ex:role="view" ex:viewClass="Thumbnail" ex:showAll="true"`)
	writeOrders(&b, v)
	b.WriteString(`><div ex:role="exhibit-lens" class="exhibit-thumbnail" style="display: none;">`)
	b.WriteString(CompileAll(v.Cell))
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderTileView(v models.View) string {
	var b strings.Builder
	b.WriteString(`<div ex:role="view" ex:label="Details" ex:viewClass="Tile" ex:showAll="true"`)
	writeOrders(&b, v)
	b.WriteString(`></div>`)
	return b.String()
}

func renderDetailRow(cells []models.CellNode) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>")
		compileTo(&b, c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

// writeOrders appends the sort attributes of a view, omitting empty lists.
func writeOrders(b *strings.Builder, v models.View) {
	if len(v.StdOrder) > 0 {
		b.WriteString(` ex:orders="`)
		b.WriteString(orderList(v.StdOrder))
		b.WriteString(`"`)
	}
	if len(v.Orders) > 0 {
		b.WriteString(` ex:possibleOrders="`)
		b.WriteString(orderList(v.Orders))
		b.WriteString(`"`)
	}
}

// orderList renders properties as comma separated binding expressions.
func orderList(props []string) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = binding(p)
	}
	return strings.Join(parts, ", ")
}
