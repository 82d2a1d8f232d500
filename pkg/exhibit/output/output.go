// Package output serializes datasets and rendered markup.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/markup"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

// ToJSON serializes a dataset as an Exhibit data file.
func ToJSON(ds *models.Dataset, pretty bool) ([]byte, error) {
	return marshal(ds, pretty)
}

// RegionsToJSON serializes rendered regions.
func RegionsToJSON(r markup.Regions, pretty bool) ([]byte, error) {
	return marshal(r, pretty)
}

// marshal encodes v without escaping markup characters.
func marshal(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
