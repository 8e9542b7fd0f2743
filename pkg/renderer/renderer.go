package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
)

// Renderer renders batches through a backend into a document and tracks the
// resulting instances by mount target. It is safe for concurrent use; calls
// are serialized, so the last call to touch a target wins.
type Renderer struct {
	mu sync.Mutex

	backend  backend.Backend
	doc      document.Document
	inPlace  bool
	defaults chart.Layout

	live  map[string]*tracked
	order []string
}

type tracked struct {
	instance   backend.Instance
	container  document.Container
	descriptor chart.Descriptor
}

// superseded remembers a chart disposed by an in-flight Render so it can be
// drawn again if the batch fails.
type superseded struct {
	target string
	prev   *tracked
}

// New binds a renderer to a backend and the document holding its containers.
func New(b backend.Backend, doc document.Document, options ...Option) (*Renderer, error) {
	if b == nil {
		return nil, errors.New("renderer: backend is nil")
	}
	if doc == nil {
		return nil, errors.New("renderer: document is nil")
	}

	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return &Renderer{
		backend:  b,
		doc:      doc,
		inPlace:  cfg.inPlace,
		defaults: cfg.defaults,
		live:     make(map[string]*tracked),
	}, nil
}

// Backend returns the backend charts are rendered through.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// RenderFigures zips the parallel figure and id sequences a producer emits
// and renders the resulting batch. Sequences of different lengths fail with
// chart.ErrLengthMismatch before the page is touched.
func (r *Renderer) RenderFigures(ctx context.Context, figures []chart.Descriptor, ids []string) ([]backend.Instance, error) {
	batch, err := chart.NewBatch(ids, figures)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, batch)
}

// Render draws every pair of the batch and returns the instances in batch
// order. Targets already holding a chart have it disposed first.
//
// Nothing is mutated until every descriptor validates and every target
// resolves. When the backend fails, or ctx is cancelled between pairs, the
// charts created so far are disposed and the charts they replaced are
// rendered again before the error is returned.
func (r *Renderer) Render(ctx context.Context, batch chart.Batch) ([]backend.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	descriptors := make([]chart.Descriptor, len(batch))
	containers := make([]document.Container, len(batch))
	for i, pair := range batch {
		desc, err := prepare(pair.Target, i, pair.Descriptor)
		if err != nil {
			return nil, err
		}
		descriptors[i] = desc
	}
	for i, pair := range batch {
		c, ok := r.doc.ResolveContainer(pair.Target)
		if !ok || c == nil {
			return nil, chart.MissingTarget(pair.Target, i)
		}
		containers[i] = c
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := make([]backend.Instance, 0, len(batch))
	var replaced []superseded

	for i, pair := range batch {
		if err := ctx.Err(); err != nil {
			return nil, r.rollback(ctx, err, created, replaced)
		}

		if prev, ok := r.live[pair.Target]; ok {
			if err := r.backend.DisposeChart(prev.instance); err != nil {
				cause := chart.BackendRenderError(pair.Target, i, fmt.Errorf("dispose previous chart: %w", err))
				return nil, r.rollback(ctx, cause, created, replaced)
			}
			replaced = append(replaced, superseded{target: pair.Target, prev: prev})
		}

		inst, err := r.backend.RenderChart(ctx, containers[i], descriptors[i].Data, r.layoutFor(descriptors[i]))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, r.rollback(ctx, ctxErr, created, replaced)
			}
			return nil, r.rollback(ctx, chart.BackendRenderError(pair.Target, i, err), created, replaced)
		}
		created = append(created, inst)
	}

	for i, pair := range batch {
		r.track(pair.Target, &tracked{
			instance:   created[i],
			container:  containers[i],
			descriptor: descriptors[i],
		})
	}
	return append([]backend.Instance(nil), created...), nil
}

// Update renders descriptor at target, replacing whatever chart is tracked
// there. Repeating the call with the same descriptor leaves a single live
// instance. When the backend rejects the descriptor the previous chart is
// restored.
func (r *Renderer) Update(ctx context.Context, target string, descriptor chart.Descriptor) (backend.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, &chart.RenderError{Kind: chart.ErrEmptyTarget, Index: -1}
	}
	desc, err := prepare(target, -1, descriptor)
	if err != nil {
		return nil, err
	}
	c, ok := r.doc.ResolveContainer(target)
	if !ok || c == nil {
		return nil, chart.MissingTarget(target, -1)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev, exists := r.live[target]
	if exists && r.inPlace {
		if err := r.backend.UpdateChart(ctx, prev.instance, desc.Data, r.layoutFor(desc)); err != nil {
			return nil, chart.BackendRenderError(target, -1, err)
		}
		prev.descriptor = desc
		return prev.instance, nil
	}

	if exists {
		if err := r.backend.DisposeChart(prev.instance); err != nil {
			return nil, chart.BackendRenderError(target, -1, fmt.Errorf("dispose previous chart: %w", err))
		}
	}

	inst, err := r.backend.RenderChart(ctx, c, desc.Data, r.layoutFor(desc))
	if err != nil {
		cause := error(chart.BackendRenderError(target, -1, err))
		if exists {
			cause = r.rollback(ctx, cause, nil, []superseded{{target: target, prev: prev}})
		}
		return nil, cause
	}

	r.track(target, &tracked{instance: inst, container: c, descriptor: desc})
	return inst, nil
}

// Resize redraws the chart at target with the given width and height merged
// into its layout.
func (r *Renderer) Resize(ctx context.Context, target string, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target = strings.TrimSpace(target)
	prev, ok := r.live[target]
	if !ok {
		return &chart.RenderError{Kind: chart.ErrNotRendered, Target: target, Index: -1}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer: resize %q: width and height must be positive, got %dx%d", target, width, height)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	desc := prev.descriptor.Normalize()
	desc.Layout = desc.Layout.Merge(chart.Layout{"width": width, "height": height})
	if err := r.backend.UpdateChart(ctx, prev.instance, desc.Data, r.layoutFor(desc)); err != nil {
		return chart.BackendRenderError(target, -1, err)
	}
	prev.descriptor = desc
	return nil
}

// Dispose releases the chart at target. It is a no-op when nothing is
// tracked there. The instance is forgotten even when the backend reports an
// error.
func (r *Renderer) Dispose(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target = strings.TrimSpace(target)
	prev, ok := r.live[target]
	if !ok {
		return nil
	}
	r.forget(target)
	if err := r.backend.DisposeChart(prev.instance); err != nil {
		return fmt.Errorf("renderer: dispose %q: %w", target, err)
	}
	return nil
}

// DisposeAll releases every tracked chart in the order first rendered.
func (r *Renderer) DisposeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, target := range r.order {
		prev := r.live[target]
		if err := r.backend.DisposeChart(prev.instance); err != nil {
			errs = append(errs, fmt.Errorf("renderer: dispose %q: %w", target, err))
		}
	}
	r.live = make(map[string]*tracked)
	r.order = nil
	return errors.Join(errs...)
}

// Instance returns the live instance tracked at target.
func (r *Renderer) Instance(target string) (backend.Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.live[strings.TrimSpace(target)]
	if !ok {
		return nil, false
	}
	return prev.instance, true
}

// Descriptor returns the descriptor currently drawn at target.
func (r *Renderer) Descriptor(target string) (chart.Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.live[strings.TrimSpace(target)]
	if !ok {
		return chart.Descriptor{}, false
	}
	return prev.descriptor.Normalize(), true
}

// Targets lists tracked targets in the order they were first rendered.
func (r *Renderer) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// rollback disposes the instances created by a failed call and brings back
// every chart it superseded. Backends implementing backend.Restorer get the
// disposed instance back as last drawn; the rest are rendered again from the
// tracked descriptor. When a chart cannot be restored it is dropped
// from tracking and the failure is joined to cause.
func (r *Renderer) rollback(ctx context.Context, cause error, created []backend.Instance, replaced []superseded) error {
	errs := []error{cause}
	for i := len(created) - 1; i >= 0; i-- {
		if err := r.backend.DisposeChart(created[i]); err != nil {
			errs = append(errs, fmt.Errorf("renderer: rollback dispose %q: %w", created[i].Target(), err))
		}
	}

	restoreCtx := context.WithoutCancel(ctx)
	restorer, _ := r.backend.(backend.Restorer)
	for _, entry := range replaced {
		prev := entry.prev
		if restorer != nil && restorer.RestoreChart(restoreCtx, prev.instance) == nil {
			continue
		}
		inst, err := r.backend.RenderChart(restoreCtx, prev.container, prev.descriptor.Data, r.layoutFor(prev.descriptor))
		if err != nil {
			r.forget(entry.target)
			errs = append(errs, fmt.Errorf("renderer: restore %q: %w", entry.target, err))
			continue
		}
		prev.instance = inst
	}
	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}

func (r *Renderer) track(target string, entry *tracked) {
	if _, ok := r.live[target]; !ok {
		r.order = append(r.order, target)
	}
	r.live[target] = entry
}

func (r *Renderer) forget(target string) {
	if _, ok := r.live[target]; !ok {
		return
	}
	delete(r.live, target)
	for i, name := range r.order {
		if name == target {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Renderer) layoutFor(desc chart.Descriptor) chart.Layout {
	return r.defaults.Merge(desc.Layout)
}

func prepare(target string, index int, descriptor chart.Descriptor) (chart.Descriptor, error) {
	desc := descriptor.Normalize()
	if err := desc.Validate(); err != nil {
		if index >= 0 {
			return chart.Descriptor{}, fmt.Errorf("renderer: pair %d (%q): %w", index, target, err)
		}
		return chart.Descriptor{}, fmt.Errorf("renderer: %q: %w", target, err)
	}
	return desc, nil
}
