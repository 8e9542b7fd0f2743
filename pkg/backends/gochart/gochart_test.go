package gochart_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/backends/gochart"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
)

func TestBackend_RendersInlineSVG(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	data := []chart.Series{
		chart.Series(`{"name":"temp","x":[1,2,3],"y":[20,22,19]}`),
		chart.Series(`{"name":"feels","x":[1,2,3],"y":[18,23,17]}`),
	}
	layout := chart.Layout{"title": `<b>Weather</b> & <script>alert(1)</script>`, "width": 400, "height": 300}
	inst, err := b.RenderChart(context.Background(), c, data, layout)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if inst.Backend() != "gochart" {
		t.Fatalf("unexpected backend %q", inst.Backend())
	}

	got := page.Fragment("a")
	if !strings.Contains(got, `<figure data-chartgen="gochart" data-revision="1"`) {
		t.Fatalf("missing figure wrapper: %s", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, `width="400"`) {
		t.Fatalf("missing sized svg: %s", got)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "<b>") {
		t.Fatalf("caption markup must be stripped: %s", got)
	}
	if !strings.Contains(got, "<figcaption>Weather &amp;") {
		t.Fatalf("caption text missing: %s", got)
	}
}

func TestBackend_BarAndPie(t *testing.T) {
	b, err := gochart.New(gochart.WithTheme(&theme.RendererConfig{
		Tokens: map[string]string{gochart.TokenColorway: "#336699"},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page := document.NewMemory("bar", "pie")
	ctx := context.Background()

	bar, _ := page.ResolveContainer("bar")
	if _, err := b.RenderChart(ctx, bar, []chart.Series{
		chart.Series(`{"type":"bar","x":["KL","PG"],"y":[3,5]}`),
	}, nil); err != nil {
		t.Fatalf("render bar: %v", err)
	}
	if got := page.Fragment("bar"); !strings.Contains(got, "<svg") {
		t.Fatalf("bar chart missing svg: %s", got)
	}

	pie, _ := page.ResolveContainer("pie")
	if _, err := b.RenderChart(ctx, pie, []chart.Series{
		chart.Series(`{"type":"pie","labels":["a","b"],"values":[1,3]}`),
	}, nil); err != nil {
		t.Fatalf("render pie: %v", err)
	}
	if got := page.Fragment("pie"); !strings.Contains(got, "<svg") {
		t.Fatalf("pie chart missing svg: %s", got)
	}
}

func TestBackend_EmptyDataMountsCaptionOnly(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	if _, err := b.RenderChart(context.Background(), c, nil, chart.Layout{"title": "Pending"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := page.Fragment("a")
	if strings.Contains(got, "<svg") || !strings.Contains(got, "<figcaption>Pending</figcaption>") {
		t.Fatalf("unexpected empty fragment: %s", got)
	}
}

func TestBackend_Errors(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")
	ctx := context.Background()

	for name, data := range map[string][]chart.Series{
		"unknown type": {chart.Series(`{"type":"heatmap","y":[1,2]}`)},
		"non numeric":  {chart.Series(`{"type":"bar","y":["tall","short"]}`)},
		"two bars":     {chart.Series(`{"type":"bar","y":[1,2]}`), chart.Series(`{"type":"bar","y":[3,4]}`)},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := b.RenderChart(ctx, c, data, nil); err == nil {
				t.Fatalf("expected error")
			}
			if c.Mounted() {
				t.Fatalf("failed render must not mount")
			}
		})
	}

	if err := b.DisposeChart(&backend.Handle{ChartTarget: "a"}); !errors.Is(err, backend.ErrForeignInstance) {
		t.Fatalf("expected ErrForeignInstance, got %v", err)
	}
}

func TestBackend_UpdateRedraws(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")
	ctx := context.Background()

	inst, err := b.RenderChart(ctx, c, nil, chart.Layout{"title": "one"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := b.UpdateChart(ctx, inst, nil, chart.Layout{"title": "two"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := page.Fragment("a")
	if !strings.Contains(got, `data-revision="2"`) || !strings.Contains(got, "two") {
		t.Fatalf("unexpected update: %s", got)
	}
	if err := b.DisposeChart(inst); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if err := b.UpdateChart(ctx, inst, nil, nil); err == nil {
		t.Fatalf("expected update after dispose to fail")
	}
}

func newBackend(t *testing.T) *gochart.Backend {
	t.Helper()
	b, err := gochart.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return b
}

func TestBackend_RestoreChartBringsBackLastDraw(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")
	ctx := context.Background()
	data := []chart.Series{chart.Series(`{"type":"bar","x":["KL","PG"],"y":[3,5]}`)}

	inst, err := b.RenderChart(ctx, c, data, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := b.UpdateChart(ctx, inst, data, chart.Layout{"title": "second"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	drawn := page.Fragment("a")

	if err := b.RestoreChart(ctx, inst); err != nil {
		t.Fatalf("restore live instance: %v", err)
	}
	if err := b.DisposeChart(inst); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if err := b.RestoreChart(ctx, inst); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := page.Fragment("a"); got != drawn {
		t.Fatalf("restored fragment mismatch\nwant: %s\n got: %s", drawn, got)
	}
	if !strings.Contains(drawn, `data-revision="2"`) {
		t.Fatalf("expected revision 2 fragment, got %s", drawn)
	}

	if err := b.UpdateChart(ctx, inst, data, nil); err != nil {
		t.Fatalf("update after restore: %v", err)
	}
	if got := page.Fragment("a"); !strings.Contains(got, `data-revision="3"`) {
		t.Fatalf("expected revision 3 after restore, got %s", got)
	}

	foreign := &backend.Handle{ChartTarget: "a", BackendName: "other"}
	if err := b.RestoreChart(ctx, foreign); !errors.Is(err, backend.ErrForeignInstance) {
		t.Fatalf("expected ErrForeignInstance, got %v", err)
	}
}
