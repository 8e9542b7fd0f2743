package plotly

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-chartgen/pkg/render/template/gotemplate"
)

const (
	backendName  = "plotly"
	templateName = "templates/plot.tmpl"

	methodNewPlot = "newPlot"
	methodReact   = "react"
)

// Backend mounts Plotly.js plot calls into document containers. The first
// render emits Plotly.newPlot; updates emit Plotly.react so the browser
// reuses the existing plot.
type Backend struct {
	templates  rendertemplate.TemplateRenderer
	scriptURL  string
	plotConfig map[string]any
	defaults   chart.Layout
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.AssetProvider = (*Backend)(nil)
	_ backend.Restorer      = (*Backend)(nil)
	_ backend.LayoutThemer  = (*Backend)(nil)
)

type instance struct {
	backend.Handle
	revision int
	disposed bool
	// mounted is the last fragment drawn, kept so a disposal can be undone.
	mounted []byte
}

// New constructs a Plotly backend applying any provided options.
func New(options ...Option) (*Backend, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		scriptURL:  DefaultScriptURL,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
			return nil, fmt.Errorf("plotly backend: template %q: %w", templateName, err)
		}
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("plotly backend: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Backend{
		templates:  renderer,
		scriptURL:  cfg.scriptURL,
		plotConfig: cfg.plotConfig,
		defaults:   themeLayout(cfg.theme),
	}, nil
}

// Name identifies the backend inside the registry.
func (b *Backend) Name() string {
	return backendName
}

// Scripts lists the Plotly bundle pages must load.
func (b *Backend) Scripts() []string {
	if b.scriptURL == "" {
		return nil
	}
	return []string{b.scriptURL}
}

// ThemeLayout maps theme tokens onto Plotly layout keys.
func (b *Backend) ThemeLayout(cfg *theme.RendererConfig) chart.Layout {
	return themeLayout(cfg)
}

// RenderChart mounts a Plotly.newPlot call targeting the container id.
func (b *Backend) RenderChart(ctx context.Context, c document.Container, data []chart.Series, layout chart.Layout) (backend.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("plotly backend: container is nil")
	}

	inst := &instance{Handle: backend.NewHandle(backendName, c), revision: 1}
	fragment, err := b.fragment(methodNewPlot, inst, data, layout)
	if err != nil {
		return nil, err
	}
	if err := c.Mount(fragment); err != nil {
		return nil, fmt.Errorf("plotly backend: mount %q: %w", c.ID(), err)
	}
	inst.mounted = fragment
	return inst, nil
}

// UpdateChart replaces the mounted call with Plotly.react.
func (b *Backend) UpdateChart(ctx context.Context, inst backend.Instance, data []chart.Series, layout chart.Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live, err := b.own(inst)
	if err != nil {
		return err
	}
	if live.disposed {
		return fmt.Errorf("plotly backend: instance %q already disposed", live.Target())
	}

	next := *live
	next.revision++
	fragment, err := b.fragment(methodReact, &next, data, layout)
	if err != nil {
		return err
	}
	if err := live.Container.Mount(fragment); err != nil {
		return fmt.Errorf("plotly backend: mount %q: %w", live.Target(), err)
	}
	live.revision = next.revision
	live.mounted = fragment
	return nil
}

// DisposeChart unmounts the plot. Disposing twice is a no-op.
func (b *Backend) DisposeChart(inst backend.Instance) error {
	live, err := b.own(inst)
	if err != nil {
		return err
	}
	if live.disposed {
		return nil
	}
	live.Container.Unmount()
	live.disposed = true
	return nil
}

// RestoreChart remounts the last fragment of a disposed instance and makes it
// live again. Restoring a live instance is a no-op.
func (b *Backend) RestoreChart(ctx context.Context, inst backend.Instance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live, err := b.own(inst)
	if err != nil {
		return err
	}
	if !live.disposed {
		return nil
	}
	if len(live.mounted) == 0 {
		return fmt.Errorf("plotly backend: instance %q has nothing to restore", live.Target())
	}
	if err := live.Container.Mount(live.mounted); err != nil {
		return fmt.Errorf("plotly backend: restore %q: %w", live.Target(), err)
	}
	live.disposed = false
	return nil
}

func (b *Backend) own(inst backend.Instance) (*instance, error) {
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return nil, fmt.Errorf("plotly backend: %w", backend.ErrForeignInstance)
	}
	return live, nil
}

func (b *Backend) fragment(method string, inst *instance, data []chart.Series, layout chart.Layout) ([]byte, error) {
	if err := checkTraces(data); err != nil {
		return nil, err
	}
	if data == nil {
		data = []chart.Series{}
	}

	targetJSON, err := backend.ScriptJSON(inst.Target())
	if err != nil {
		return nil, fmt.Errorf("plotly backend: marshal target: %w", err)
	}
	dataJSON, err := backend.ScriptJSON(data)
	if err != nil {
		return nil, fmt.Errorf("plotly backend: marshal data: %w", err)
	}
	layoutJSON, err := backend.ScriptJSON(b.defaults.Merge(layout))
	if err != nil {
		return nil, fmt.Errorf("plotly backend: marshal layout: %w", err)
	}
	configJSON := ""
	if len(b.plotConfig) > 0 {
		if configJSON, err = backend.ScriptJSON(b.plotConfig); err != nil {
			return nil, fmt.Errorf("plotly backend: marshal config: %w", err)
		}
	}

	rendered, err := b.templates.RenderTemplate(templateName, map[string]any{
		"method":      method,
		"revision":    inst.revision,
		"target_json": targetJSON,
		"data_json":   dataJSON,
		"layout_json": layoutJSON,
		"config_json": configJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("plotly backend: render template: %w", err)
	}
	return []byte(rendered), nil
}

// checkTraces enforces that every trace is a JSON object, which is all
// Plotly requires before it reads trace attributes.
func checkTraces(data []chart.Series) error {
	for i, series := range data {
		trimmed := bytes.TrimSpace(series)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("plotly backend: trace %d is not an object", i)
		}
	}
	return nil
}
