package chartgen

import (
	"context"

	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/orchestrator"
	"github.com/goliatone/go-chartgen/pkg/payload"
	theme "github.com/goliatone/go-theme"
)

// Descriptor aliases chart.Descriptor so callers can build figures without
// importing the chart package.
type Descriptor = chart.Descriptor

// Batch aliases chart.Batch, the paired figures/ids payload.
type Batch = chart.Batch

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Session aliases orchestrator.Session for callers that keep a rendered page
// alive to update or dispose charts later.
type Session = orchestrator.Session

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the payload from source, renders every figure into a
// generated page with the named backend, and returns the serialized HTML. It
// is the simplest entry point for callers that just want a page.
func GenerateHTML(ctx context.Context, source payload.Source, backendName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:  source,
		Backend: backendName,
	})
}

// GenerateHTMLFromPayload renders an already decoded payload, bypassing the
// loader stage.
func GenerateHTMLFromPayload(ctx context.Context, p payload.Payload, backendName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Payload: &p,
		Backend: backendName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
