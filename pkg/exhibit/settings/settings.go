// Package settings resolves and persists per-widget settings.
package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
)

const (
	// DefaultDataURL is used when no data URL is configured.
	DefaultDataURL = "/devwidgets/exhibit/nobelists.json"
	// DefaultLayoutURL is used when no layout URL is configured.
	DefaultLayoutURL = "/devwidgets/exhibit/layout.json"
)

// ErrNotFound indicates a widget without saved settings.
var ErrNotFound = errors.New("settings not found")

// Store persists settings by widget id.
type Store interface {
	Load(ctx context.Context, widgetID string) (models.Settings, error)
	Save(ctx context.Context, widgetID string, s models.Settings) error
}

// Defaults returns the settings of an unconfigured widget.
func Defaults() models.Settings {
	return models.Settings{
		DataURL:   DefaultDataURL,
		LayoutURL: DefaultLayoutURL,
	}
}

// Resolve trims both URLs and substitutes the defaults for blank ones.
func Resolve(s models.Settings) models.Settings {
	return models.Settings{
		DataURL:   orDefault(s.DataURL, DefaultDataURL),
		LayoutURL: orDefault(s.LayoutURL, DefaultLayoutURL),
	}
}

// Preferred loads and resolves the settings of a widget. Any load failure,
// including ErrNotFound, yields the defaults.
func Preferred(ctx context.Context, store Store, widgetID string) models.Settings {
	s, err := store.Load(ctx, widgetID)
	if err != nil {
		return Defaults()
	}
	return Resolve(s)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
