package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-chartgen/internal/payload/loader"
	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/backends/echarts"
	"github.com/goliatone/go-chartgen/pkg/backends/gochart"
	"github.com/goliatone/go-chartgen/pkg/backends/plotly"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
	"github.com/goliatone/go-chartgen/pkg/payload"
	"github.com/goliatone/go-chartgen/pkg/renderer"
)

const defaultBackendName = "plotly"

// Orchestrator coordinates the full pipeline from payload to rendered page.
// It applies sensible defaults (plotly backend, shell page) while remaining
// open to dependency injection for advanced callers.
type Orchestrator struct {
	loader          payload.Loader
	registry        *backend.Registry
	defaultBackend  string
	rendererOptions []renderer.Option
	shellOptions    []document.ShellOption
	themeSelector   theme.ThemeSelector
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultBackend: defaultBackendName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one page render.
type Request struct {
	// Source identifies where the payload lives. Optional when Payload is
	// supplied.
	Source payload.Source

	// Payload bypasses the loader when the caller already decoded one.
	Payload *payload.Payload

	// Page is the host HTML document holding the mount targets. When nil a
	// shell page with one container per id is generated.
	Page io.Reader

	// Backend names the backend to use. If empty, the orchestrator falls back
	// to the configured default backend.
	Backend string

	// Title sets the shell page title. Ignored when Page is supplied.
	Title string

	// ThemeName and ThemeVariant are resolved through the theme selector
	// when one is configured.
	ThemeName    string
	ThemeVariant string
}

// Session keeps the page and renderer of a completed render alive so callers
// can update, resize or dispose charts before serialising the page again.
type Session struct {
	page      *document.HTML
	renderer  *renderer.Renderer
	instances []backend.Instance
}

// Page returns the host document.
func (s *Session) Page() *document.HTML { return s.page }

// Renderer returns the renderer that owns the session's charts.
func (s *Session) Renderer() *renderer.Renderer { return s.renderer }

// Instances returns the instances produced by the initial render, in batch
// order.
func (s *Session) Instances() []backend.Instance {
	return append([]backend.Instance(nil), s.instances...)
}

// Update forwards to Renderer.Update.
func (s *Session) Update(ctx context.Context, target string, descriptor chart.Descriptor) (backend.Instance, error) {
	return s.renderer.Update(ctx, target, descriptor)
}

// Render serialises the page in its current state.
func (s *Session) Render(w io.Writer) error {
	return s.page.Render(w)
}

// Bytes serialises the page in its current state.
func (s *Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close disposes every chart in the session.
func (s *Session) Close() error {
	return s.renderer.DisposeAll()
}

// Generate executes the load → batch → page → render sequence and returns
// the serialised page.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	session, err := o.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := session.Bytes()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: serialise page: %w", err)
	}
	return out, nil
}

// Open runs the pipeline and returns the live session instead of bytes.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	p, err := o.resolvePayload(ctx, req)
	if err != nil {
		return nil, err
	}
	batch, err := p.Batch()
	if err != nil {
		return nil, err
	}

	b, err := o.backendFor(req.Backend)
	if err != nil {
		return nil, err
	}
	themeCfg, err := o.resolveTheme(req)
	if err != nil {
		return nil, err
	}

	page, err := o.resolvePage(req, batch, themeCfg)
	if err != nil {
		return nil, err
	}
	if assets, ok := b.(backend.AssetProvider); ok {
		for _, src := range assets.Scripts() {
			page.AddScript(src)
		}
	}

	options := append([]renderer.Option(nil), o.rendererOptions...)
	if themer, ok := b.(backend.LayoutThemer); ok && themeCfg != nil {
		options = append(options, renderer.WithLayoutDefaults(themer.ThemeLayout(themeCfg)))
	}
	r, err := renderer.New(b, page, options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	instances, err := r.Render(ctx, batch)
	if err != nil {
		return nil, err
	}
	return &Session{page: page, renderer: r, instances: instances}, nil
}

// Backends lists the registered backend names.
func (o *Orchestrator) Backends() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolvePayload(ctx context.Context, req Request) (payload.Payload, error) {
	if req.Payload != nil {
		return *req.Payload, nil
	}
	if req.Source == nil {
		return payload.Payload{}, errors.New("orchestrator: source or payload is required")
	}
	p, err := payload.Load(ctx, o.loader, req.Source)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("orchestrator: load payload: %w", err)
	}
	return p, nil
}

func (o *Orchestrator) resolvePage(req Request, batch chart.Batch, themeCfg *theme.RendererConfig) (*document.HTML, error) {
	if req.Page != nil {
		page, err := document.ParseHTML(req.Page)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: parse page: %w", err)
		}
		return page, nil
	}

	options := append([]document.ShellOption(nil), o.shellOptions...)
	if req.Title != "" {
		options = append(options, document.WithTitle(req.Title))
	}
	if themeCfg != nil {
		options = append(options, document.WithTheme(themeCfg))
	}
	page, err := document.Shell(batch.Targets(), options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build shell page: %w", err)
	}
	return page, nil
}

func (o *Orchestrator) backendFor(name string) (backend.Backend, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: backend registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultBackend
	}

	if target != "" {
		b, err := o.registry.Get(target)
		if err == nil {
			return b, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: backend %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no backends registered")
	}

	b, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: backend %q: %w", names[0], err)
	}
	return b, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(payload.NewLoaderOptions())
	}
	if o.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			o.initialiseErr = err
		}
		o.registry = registry
	}
	if o.defaultBackend == "" {
		o.defaultBackend = defaultBackendName
	}

	o.defaultsApplied = true
}

// DefaultRegistry returns a registry holding the built-in plotly, echarts and
// gochart backends.
func DefaultRegistry() (*backend.Registry, error) {
	registry := backend.NewRegistry()

	p, err := plotly.New()
	if err != nil {
		return registry, fmt.Errorf("orchestrator: default backend plotly: %w", err)
	}
	registry.MustRegister(p)

	e, err := echarts.New()
	if err != nil {
		return registry, fmt.Errorf("orchestrator: default backend echarts: %w", err)
	}
	registry.MustRegister(e)

	g, err := gochart.New()
	if err != nil {
		return registry, fmt.Errorf("orchestrator: default backend gochart: %w", err)
	}
	registry.MustRegister(g)

	return registry, nil
}
