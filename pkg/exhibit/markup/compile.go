// Package markup compiles layout documents into the attribute-annotated
// markup consumed by the Exhibit library.
package markup

import (
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"golang.org/x/net/html"
)

// Compile renders one cell description as a markup fragment.
//
// Compile never fails: fields missing from a node render as empty strings.
// The if-exists kind ignores Prepend and Append.
func Compile(node models.CellNode) string {
	var b strings.Builder
	compileTo(&b, node)
	return b.String()
}

// CompileAll concatenates the fragments of cells in order.
func CompileAll(cells []models.CellNode) string {
	var b strings.Builder
	for _, c := range cells {
		compileTo(&b, c)
	}
	return b.String()
}

func compileTo(b *strings.Builder, node models.CellNode) {
	switch node.Kind() {
	case models.KindImage:
		b.WriteString(node.Prepend)
		b.WriteString(`<img ex:src-content="`)
		b.WriteString(binding(node.Src))
		b.WriteString(`" />`)
		b.WriteString(node.Append)
	case models.KindHead:
		b.WriteString(node.Prepend)
		b.WriteString(`<div ex:content="`)
		b.WriteString(binding(node.Name))
		b.WriteString(`" class="head"></div>`)
		b.WriteString(node.Append)
	case models.KindItalic:
		b.WriteString(node.Prepend)
		b.WriteString(`<i ex:content="`)
		b.WriteString(binding(node.Name))
		b.WriteString(`"></i>`)
		b.WriteString(node.Append)
	case models.KindGroup:
		b.WriteString(node.Prepend)
		b.WriteString(`<div>`)
		for _, child := range node.Content {
			compileTo(b, child)
		}
		b.WriteString(`</div>`)
		b.WriteString(node.Append)
	case models.KindIfExists:
		b.WriteString(`<div ex:if-exists="`)
		b.WriteString(binding(node.Name))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(node.Name))
		b.WriteString(`">`)
		if node.Yes != nil {
			compileTo(b, *node.Yes)
		}
		b.WriteString(`</div>`)
	case models.KindElement:
		tag := tagName(node.Type)
		b.WriteString(node.Prepend)
		b.WriteString(`<`)
		b.WriteString(tag)
		b.WriteString(` ex:content="`)
		b.WriteString(binding(node.Name))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(node.Name))
		b.WriteString(`"></`)
		b.WriteString(tag)
		b.WriteString(`>`)
		b.WriteString(node.Append)
	}
}

// binding returns the relative property path for field, escaped for use in
// an attribute value.
func binding(field string) string {
	return "." + html.EscapeString(field)
}

// tagName returns t when it is a usable element name, and "div" otherwise.
func tagName(t string) string {
	if !validTag(t) {
		return "div"
	}
	return t
}

func validTag(t string) bool {
	if t == "" {
		return false
	}
	for i, r := range t {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
