package orchestrator

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/document"
	"github.com/goliatone/go-chartgen/pkg/payload"
	"github.com/goliatone/go-chartgen/pkg/renderer"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom payload loader.
func WithLoader(loader payload.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a backend registry.
func WithRegistry(registry *backend.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultBackend overrides the backend used when a request omits an
// explicit Backend field.
func WithDefaultBackend(name string) Option {
	return func(o *Orchestrator) {
		o.defaultBackend = name
	}
}

// WithRendererOptions forwards options to every renderer the orchestrator
// creates.
func WithRendererOptions(options ...renderer.Option) Option {
	return func(o *Orchestrator) {
		o.rendererOptions = append(o.rendererOptions, options...)
	}
}

// WithShellOptions forwards options to the shell page built when a request
// supplies no host page.
func WithShellOptions(options ...document.ShellOption) Option {
	return func(o *Orchestrator) {
		o.shellOptions = append(o.shellOptions, options...)
	}
}

// WithThemeSelector resolves Request.ThemeName/ThemeVariant through a go-theme
// selector. The resulting configuration styles the shell page and, for
// backends implementing backend.LayoutThemer, the chart layouts.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}
