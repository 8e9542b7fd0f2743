package renderer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-chartgen/pkg/backends/plotly"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
	"github.com/goliatone/go-chartgen/pkg/renderer"
)

func newPlotly(t *testing.T) *plotly.Backend {
	t.Helper()
	b, err := plotly.New()
	if err != nil {
		t.Fatalf("plotly backend: %v", err)
	}
	return b
}

func badDescriptor() chart.Descriptor {
	return chart.Descriptor{Data: []chart.Series{chart.Series("[1]")}}
}

func TestRender_RollbackKeepsResizedChart(t *testing.T) {
	page := document.NewMemory("a", "b")
	r := mustRenderer(t, newPlotly(t), page)
	ctx := context.Background()

	if _, err := r.Update(ctx, "a", descriptor("d1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.Resize(ctx, "a", 300, 200); err != nil {
		t.Fatalf("resize: %v", err)
	}
	resized, _ := r.Instance("a")
	before := page.Snapshot()
	if !strings.Contains(before["a"], `data-revision="2"`) || !strings.Contains(before["a"], "Plotly.react(") {
		t.Fatalf("expected a react call at revision 2, got %s", before["a"])
	}

	batch := chart.MustBatch([]string{"a", "b"}, []chart.Descriptor{descriptor("d2"), badDescriptor()})
	_, err := r.Render(ctx, batch)
	var renderErr *chart.RenderError
	if !errors.As(err, &renderErr) || renderErr.Kind != chart.ErrBackendRender || renderErr.Target != "b" {
		t.Fatalf("expected backend render error at b, got %v", err)
	}

	if diff := cmp.Diff(before, page.Snapshot()); diff != "" {
		t.Fatalf("resized chart not restored (-before +after):\n%s", diff)
	}
	if inst, _ := r.Instance("a"); inst != resized {
		t.Fatalf("expected the resized instance to stay tracked")
	}

	// The restored instance keeps its revision counter.
	if err := r.Resize(ctx, "a", 320, 200); err != nil {
		t.Fatalf("resize after rollback: %v", err)
	}
	if got := page.Content("a"); !strings.Contains(got, `data-revision="3"`) {
		t.Fatalf("expected revision 3 after rollback, got %s", got)
	}
}

func TestRender_RollbackKeepsInPlaceUpdate(t *testing.T) {
	page := document.NewMemory("a", "b")
	r, err := renderer.New(newPlotly(t), page, renderer.WithInPlaceUpdates())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx := context.Background()

	if _, err := r.Update(ctx, "a", descriptor("d1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := r.Update(ctx, "a", descriptor("d2")); err != nil {
		t.Fatalf("in-place update: %v", err)
	}
	before := page.Snapshot()

	batch := chart.MustBatch([]string{"a", "b"}, []chart.Descriptor{descriptor("d3"), badDescriptor()})
	if _, err := r.Render(ctx, batch); !errors.Is(err, chart.ErrBackendRender) {
		t.Fatalf("expected ErrBackendRender, got %v", err)
	}

	if diff := cmp.Diff(before, page.Snapshot()); diff != "" {
		t.Fatalf("updated chart not restored (-before +after):\n%s", diff)
	}
	if desc, _ := r.Descriptor("a"); !desc.Equal(descriptor("d2")) {
		t.Fatalf("expected d2 to stay tracked, got %+v", desc)
	}
}

func TestUpdate_RejectedDescriptorKeepsResizedChart(t *testing.T) {
	page := document.NewMemory("a")
	r := mustRenderer(t, newPlotly(t), page)
	ctx := context.Background()

	if _, err := r.Update(ctx, "a", descriptor("d1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := r.Resize(ctx, "a", 300, 200); err != nil {
		t.Fatalf("resize: %v", err)
	}
	before := page.Content("a")

	if _, err := r.Update(ctx, "a", badDescriptor()); !errors.Is(err, chart.ErrBackendRender) {
		t.Fatalf("expected ErrBackendRender, got %v", err)
	}
	if diff := cmp.Diff(before, page.Content("a")); diff != "" {
		t.Fatalf("resized chart not restored (-before +after):\n%s", diff)
	}
}

func TestResize_ReportsTrimmedTarget(t *testing.T) {
	r := mustRenderer(t, newFakeBackend(), document.NewMemory("a"))

	err := r.Resize(context.Background(), "  a ", 10, 10)
	var renderErr *chart.RenderError
	if !errors.As(err, &renderErr) || renderErr.Kind != chart.ErrNotRendered {
		t.Fatalf("expected ErrNotRendered, got %v", err)
	}
	if renderErr.Target != "a" {
		t.Fatalf("expected trimmed target, got %q", renderErr.Target)
	}
}
