package backend

import (
	"context"
	"errors"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
)

// ErrForeignInstance is returned when a backend receives an instance created
// by another backend.
var ErrForeignInstance = errors.New("backend: instance belongs to another backend")

// Backend turns descriptors into visible charts inside document containers.
type Backend interface {
	Name() string
	// RenderChart draws data and layout into c and returns the live handle.
	RenderChart(ctx context.Context, c document.Container, data []chart.Series, layout chart.Layout) (Instance, error)
	// UpdateChart redraws a live instance in place.
	UpdateChart(ctx context.Context, inst Instance, data []chart.Series, layout chart.Layout) error
	// DisposeChart releases the instance and removes its visual.
	DisposeChart(inst Instance) error
}

// Instance is the runtime handle for one rendered chart.
type Instance interface {
	Target() string
	Backend() string
}

// AssetProvider is implemented by backends whose output needs scripts loaded
// in the page head.
type AssetProvider interface {
	Scripts() []string
}

// Restorer is implemented by backends that can bring a disposed instance
// back exactly as it was last drawn, revision included. Renderers use it to
// undo the disposals of a failed batch; backends without it are redrawn with
// RenderChart instead.
type Restorer interface {
	RestoreChart(ctx context.Context, inst Instance) error
}

// LayoutThemer is implemented by backends that can turn theme tokens into
// layout defaults for a single render pass.
type LayoutThemer interface {
	ThemeLayout(cfg *theme.RendererConfig) chart.Layout
}

// Handle is an Instance implementation backends embed in their own instance
// types.
type Handle struct {
	ChartTarget string
	BackendName string
	Container   document.Container
}

// NewHandle binds a handle to the container it was rendered into.
func NewHandle(backendName string, c document.Container) Handle {
	return Handle{ChartTarget: c.ID(), BackendName: backendName, Container: c}
}

// Target implements Instance.
func (h *Handle) Target() string { return h.ChartTarget }

// Backend implements Instance.
func (h *Handle) Backend() string { return h.BackendName }
