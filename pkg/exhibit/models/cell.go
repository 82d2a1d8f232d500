// Package models defines data structures for layout documents and spreadsheet items.
package models

// Kind is the closed set of cell kinds the markup compiler dispatches on.
type Kind int

const (
	// KindElement is any type string without a dedicated rendering; the type is used as the tag name.
	KindElement Kind = iota
	// KindImage renders an image placeholder bound to Src.
	KindImage
	// KindHead renders a heading block bound to Name.
	KindHead
	// KindItalic renders an italic element bound to Name.
	KindItalic
	// KindGroup wraps the compiled Content children.
	KindGroup
	// KindIfExists renders Yes only when the item has Name.
	KindIfExists
)

var kindNames = map[string]Kind{
	"img":       KindImage,
	"head":      KindHead,
	"i":         KindItalic,
	"group":     KindGroup,
	"if-exists": KindIfExists,
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "element"
}

// CellNode describes how to render one data field of an item.
type CellNode struct {
	// Type is one of img, head, i, group, if-exists, or an element tag name.
	Type string `json:"type"`
	// Name is the item property bound by head, i, if-exists and element cells.
	Name string `json:"name,omitempty"`
	// Src is the item property holding an image location (img only).
	Src string `json:"src,omitempty"`
	// Prepend is literal markup emitted before the fragment.
	Prepend string `json:"prepend,omitempty"`
	// Append is literal markup emitted after the fragment.
	Append string `json:"append,omitempty"`
	// Content holds the children of a group cell.
	Content []CellNode `json:"content,omitempty"`
	// Yes is the cell rendered inside an if-exists guard.
	Yes *CellNode `json:"yes,omitempty"`
}

// Kind classifies the node by its Type.
func (n CellNode) Kind() Kind {
	if k, ok := kindNames[n.Type]; ok {
		return k
	}
	return KindElement
}
