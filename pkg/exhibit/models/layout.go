package models

// Layout is the declarative description of a widget's facets and views.
type Layout struct {
	// TopPanels lists the facets shown above the views.
	TopPanels []Facet `json:"topPanels"`
	// ThumbnailView describes the thumbnail lens.
	ThumbnailView View `json:"thumbnailView"`
	// DetailedView describes the tile view and its detail row.
	DetailedView View `json:"detailedView"`
}

// Facet is one browsing facet.
type Facet struct {
	// Expression is the item property the facet groups by.
	Expression string `json:"expression"`
	// Label is the facet's display label.
	Label string `json:"label"`
}

// View describes the sort orders and cells of one view.
type View struct {
	// StdOrder is the default sort, as item properties.
	StdOrder []string `json:"stdOrder,omitempty"`
	// Orders lists the sorts a user may choose.
	Orders []string `json:"orders,omitempty"`
	// Cell lists the cells rendered per item.
	Cell []CellNode `json:"cell,omitempty"`
}

// Settings is the persisted configuration of one widget instance.
type Settings struct {
	// DataURL locates the item data file.
	DataURL string `json:"dataURL" yaml:"dataURL"`
	// LayoutURL locates the layout document.
	LayoutURL string `json:"layoutURL" yaml:"layoutURL"`
}
