package renderer

import "github.com/goliatone/go-chartgen/pkg/chart"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	inPlace  bool
	defaults chart.Layout
}

// WithInPlaceUpdates makes Update redraw a live chart through the backend's
// UpdateChart instead of disposing it and rendering a fresh instance.
func WithInPlaceUpdates() Option {
	return func(cfg *config) {
		cfg.inPlace = true
	}
}

// WithLayoutDefaults sets layout values merged beneath every descriptor's
// layout. Descriptor values win.
func WithLayoutDefaults(defaults chart.Layout) Option {
	return func(cfg *config) {
		cfg.defaults = cfg.defaults.Merge(defaults)
	}
}
