package gochart

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-chartgen/pkg/render/template/gotemplate"
)

const (
	backendName  = "gochart"
	templateName = "templates/figure.tmpl"
)

// Backend rasterises charts to inline SVG with go-chart, producing pages
// that need no client-side script. Updates are redraws.
type Backend struct {
	templates rendertemplate.TemplateRenderer
	width     int
	height    int
	palette   []drawing.Color
}

var (
	_ backend.Backend  = (*Backend)(nil)
	_ backend.Restorer = (*Backend)(nil)
)

type instance struct {
	backend.Handle
	revision int
	disposed bool
	// mounted is the last fragment drawn, kept so a disposal can be undone.
	mounted []byte
}

// New constructs a go-chart backend.
func New(options ...Option) (*Backend, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		if _, err := fs.Stat(cfg.templateFS, templateName); err != nil {
			return nil, fmt.Errorf("gochart backend: template %q: %w", templateName, err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("gochart backend: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Backend{
		templates: renderer,
		width:     cfg.width,
		height:    cfg.height,
		palette:   paletteFrom(cfg.theme),
	}, nil
}

// Name identifies the backend inside the registry.
func (b *Backend) Name() string {
	return backendName
}

// RenderChart draws the traces and mounts the SVG figure.
func (b *Backend) RenderChart(ctx context.Context, c document.Container, data []chart.Series, layout chart.Layout) (backend.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("gochart backend: container is nil")
	}

	inst := &instance{Handle: backend.NewHandle(backendName, c), revision: 1}
	fragment, err := b.fragment(inst.revision, data, layout)
	if err != nil {
		return nil, err
	}
	if err := c.Mount(fragment); err != nil {
		return nil, fmt.Errorf("gochart backend: mount %q: %w", c.ID(), err)
	}
	inst.mounted = fragment
	return inst, nil
}

// UpdateChart redraws the figure in place.
func (b *Backend) UpdateChart(ctx context.Context, inst backend.Instance, data []chart.Series, layout chart.Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return fmt.Errorf("gochart backend: %w", backend.ErrForeignInstance)
	}
	if live.disposed {
		return fmt.Errorf("gochart backend: instance %q already disposed", live.Target())
	}

	fragment, err := b.fragment(live.revision+1, data, layout)
	if err != nil {
		return err
	}
	if err := live.Container.Mount(fragment); err != nil {
		return fmt.Errorf("gochart backend: mount %q: %w", live.Target(), err)
	}
	live.revision++
	live.mounted = fragment
	return nil
}

// DisposeChart removes the figure. Disposing twice is a no-op.
func (b *Backend) DisposeChart(inst backend.Instance) error {
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return fmt.Errorf("gochart backend: %w", backend.ErrForeignInstance)
	}
	if !live.disposed {
		live.Container.Unmount()
		live.disposed = true
	}
	return nil
}

// RestoreChart remounts the last fragment of a disposed instance and makes it
// live again. Restoring a live instance is a no-op.
func (b *Backend) RestoreChart(ctx context.Context, inst backend.Instance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return fmt.Errorf("gochart backend: %w", backend.ErrForeignInstance)
	}
	if !live.disposed {
		return nil
	}
	if len(live.mounted) == 0 {
		return fmt.Errorf("gochart backend: instance %q has nothing to restore", live.Target())
	}
	if err := live.Container.Mount(live.mounted); err != nil {
		return fmt.Errorf("gochart backend: restore %q: %w", live.Target(), err)
	}
	live.disposed = false
	return nil
}

func (b *Backend) fragment(revision int, data []chart.Series, layout chart.Layout) ([]byte, error) {
	traces, err := decodeTraces(data)
	if err != nil {
		return nil, err
	}
	palette := b.palette
	if raw, ok := layout["colorway"].([]any); ok {
		names := make([]string, 0, len(raw))
		for _, value := range raw {
			if s, ok := value.(string); ok {
				names = append(names, s)
			}
		}
		if custom := parsePalette(names); len(custom) > 0 {
			palette = custom
		}
	}

	svg, err := renderSVG(svgRequest{
		traces:  traces,
		width:   layoutInt(layout, "width", b.width),
		height:  layoutInt(layout, "height", b.height),
		palette: palette,
	})
	if err != nil {
		return nil, err
	}

	rendered, err := b.templates.RenderTemplate(templateName, map[string]any{
		"revision": revision,
		"svg":      string(svg),
		"title":    sanitizeCaption(layout.Title()),
	})
	if err != nil {
		return nil, fmt.Errorf("gochart backend: render template: %w", err)
	}
	return []byte(rendered), nil
}
