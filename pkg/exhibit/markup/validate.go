package markup

import (
	"errors"
	"fmt"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

// Validate reports every cell under node that is missing a field required by
// its type. The returned error joins one *MalformedCellError per problem.
func Validate(node models.CellNode) error {
	return errors.Join(validate("cell", node)...)
}

// ValidateLayout validates every cell of a layout document.
func ValidateLayout(layout models.Layout) error {
	var errs []error
	for i, c := range layout.ThumbnailView.Cell {
		errs = append(errs, validate(fmt.Sprintf("thumbnailView.cell[%d]", i), c)...)
	}
	for i, c := range layout.DetailedView.Cell {
		errs = append(errs, validate(fmt.Sprintf("detailedView.cell[%d]", i), c)...)
	}
	return errors.Join(errs...)
}

func validate(path string, node models.CellNode) []error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, &MalformedCellError{Path: path, Type: node.Type, Field: field})
	}

	switch node.Kind() {
	case models.KindImage:
		if node.Src == "" {
			missing("src")
		}
	case models.KindHead, models.KindItalic:
		if node.Name == "" {
			missing("name")
		}
	case models.KindGroup:
		for i, child := range node.Content {
			errs = append(errs, validate(fmt.Sprintf("%s.content[%d]", path, i), child)...)
		}
	case models.KindIfExists:
		if node.Name == "" {
			missing("name")
		}
		if node.Yes == nil {
			missing("yes")
		} else {
			errs = append(errs, validate(path+".yes", *node.Yes)...)
		}
	case models.KindElement:
		if node.Type == "" {
			missing("type")
		}
		if node.Name == "" {
			missing("name")
		}
	}
	return errs
}
