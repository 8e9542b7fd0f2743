package echarts

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-chartgen/pkg/render/template/gotemplate"
)

const (
	backendName  = "echarts"
	templateName = "templates/chart.tmpl"
)

// Backend mounts ECharts setOption calls built with go-echarts. Traces use
// the Plotly vocabulary (type, name, x, y, labels, values) so payloads are
// portable between backends.
type Backend struct {
	templates rendertemplate.TemplateRenderer
	scriptURL string
	width     string
	height    string
	defaults  themeDefaults
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.AssetProvider = (*Backend)(nil)
	_ backend.Restorer      = (*Backend)(nil)
)

type instance struct {
	backend.Handle
	revision int
	disposed bool
	// mounted is the last fragment drawn, kept so a disposal can be undone.
	mounted []byte
}

// New constructs an ECharts backend.
func New(options ...Option) (*Backend, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		scriptURL:  DefaultScriptURL,
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
			return nil, fmt.Errorf("echarts backend: template %q: %w", templateName, err)
		}
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("echarts backend: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Backend{
		templates: renderer,
		scriptURL: cfg.scriptURL,
		width:     cfg.width,
		height:    cfg.height,
		defaults:  themeFrom(cfg.theme),
	}, nil
}

// Name identifies the backend inside the registry.
func (b *Backend) Name() string {
	return backendName
}

// Scripts lists the ECharts bundle pages must load.
func (b *Backend) Scripts() []string {
	if b.scriptURL == "" {
		return nil
	}
	return []string{b.scriptURL}
}

// RenderChart mounts an echarts.init call for the container.
func (b *Backend) RenderChart(ctx context.Context, c document.Container, data []chart.Series, layout chart.Layout) (backend.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("echarts backend: container is nil")
	}

	inst := &instance{Handle: backend.NewHandle(backendName, c), revision: 1}
	fragment, err := b.fragment(inst.Target(), inst.revision, data, layout)
	if err != nil {
		return nil, err
	}
	if err := c.Mount(fragment); err != nil {
		return nil, fmt.Errorf("echarts backend: mount %q: %w", c.ID(), err)
	}
	inst.mounted = fragment
	return inst, nil
}

// UpdateChart replaces the option on the existing chart instance.
func (b *Backend) UpdateChart(ctx context.Context, inst backend.Instance, data []chart.Series, layout chart.Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return fmt.Errorf("echarts backend: %w", backend.ErrForeignInstance)
	}
	if live.disposed {
		return fmt.Errorf("echarts backend: instance %q already disposed", live.Target())
	}

	fragment, err := b.fragment(live.Target(), live.revision+1, data, layout)
	if err != nil {
		return err
	}
	if err := live.Container.Mount(fragment); err != nil {
		return fmt.Errorf("echarts backend: mount %q: %w", live.Target(), err)
	}
	live.revision++
	live.mounted = fragment
	return nil
}

// DisposeChart unmounts the chart. Disposing twice is a no-op.
func (b *Backend) DisposeChart(inst backend.Instance) error {
	live, ok := inst.(*instance)
	if !ok || live == nil {
		return fmt.Errorf("echarts backend: %w", backend.ErrForeignInstance)
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
		return fmt.Errorf("echarts backend: %w", backend.ErrForeignInstance)
	}
	if !live.disposed {
		return nil
	}
	if len(live.mounted) == 0 {
		return fmt.Errorf("echarts backend: instance %q has nothing to restore", live.Target())
	}
	if err := live.Container.Mount(live.mounted); err != nil {
		return fmt.Errorf("echarts backend: restore %q: %w", live.Target(), err)
	}
	live.disposed = false
	return nil
}

func (b *Backend) fragment(target string, revision int, data []chart.Series, layout chart.Layout) ([]byte, error) {
	size := [2]string{
		layoutSize(layout, "width", b.width),
		layoutSize(layout, "height", b.height),
	}
	option, err := buildOption(target, data, layout, b.defaults, size)
	if err != nil {
		return nil, err
	}

	values := map[string]any{"revision": revision}
	encode := map[string]any{
		"target_json": target,
		"width_json":  size[0],
		"height_json": size[1],
		"option_json": option,
	}
	if b.defaults.name != "" {
		encode["theme_json"] = b.defaults.name
	}
	for key, value := range encode {
		encoded, err := backend.ScriptJSON(value)
		if err != nil {
			return nil, fmt.Errorf("echarts backend: marshal %s: %w", key, err)
		}
		values[key] = encoded
	}

	rendered, err := b.templates.RenderTemplate(templateName, values)
	if err != nil {
		return nil, fmt.Errorf("echarts backend: render template: %w", err)
	}
	return []byte(rendered), nil
}
