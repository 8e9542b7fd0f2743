package plotly_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/backends/plotly"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/document"
)

func TestBackend_RenderEmitsNewPlot(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	data := []chart.Series{chart.Series(`{"type":"bar","x":["KL"],"y":[3]}`)}
	inst, err := b.RenderChart(context.Background(), c, data, chart.Layout{"title": "Top </script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if inst.Target() != "a" || inst.Backend() != "plotly" {
		t.Fatalf("unexpected instance %s/%s", inst.Backend(), inst.Target())
	}

	got := page.Fragment("a")
	if !strings.HasPrefix(got, `<script data-chartgen="plotly" data-revision="1">`) {
		t.Fatalf("unexpected script tag: %s", got)
	}
	if !strings.Contains(got, `Plotly.newPlot("a", [{"type":"bar","x":["KL"],"y":[3]}], {"title":"Top `) {
		t.Fatalf("unexpected plot call: %s", got)
	}
	if n := strings.Count(got, "</script>"); n != 1 {
		t.Fatalf("layout strings must not close the script element, found %d closers", n)
	}
}

func TestBackend_EmptyLayoutAndConfig(t *testing.T) {
	b, err := plotly.New(plotly.WithPlotConfig(map[string]any{"responsive": true}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	if _, err := b.RenderChart(context.Background(), c, nil, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := page.Fragment("a"); !strings.Contains(got, `Plotly.newPlot("a", [], {}, {"responsive":true});`) {
		t.Fatalf("unexpected fragment: %s", got)
	}
}

func TestBackend_UpdateEmitsReactAndDisposeUnmounts(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")
	ctx := context.Background()

	inst, err := b.RenderChart(ctx, c, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := b.UpdateChart(ctx, inst, nil, chart.Layout{"width": 300}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := page.Fragment("a")
	if !strings.Contains(got, `data-revision="2"`) || !strings.Contains(got, `Plotly.react("a", [], {"width":300});`) {
		t.Fatalf("unexpected update fragment: %s", got)
	}

	if err := b.DisposeChart(inst); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if err := b.DisposeChart(inst); err != nil {
		t.Fatalf("second dispose: %v", err)
	}
	if c.Mounted() {
		t.Fatalf("expected container unmounted")
	}
	if err := b.UpdateChart(ctx, inst, nil, nil); err == nil {
		t.Fatalf("expected update on disposed instance to fail")
	}
}

func TestBackend_RejectsNonObjectTraces(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	_, err := b.RenderChart(context.Background(), c, []chart.Series{chart.Series(`[1,2]`)}, nil)
	if err == nil {
		t.Fatalf("expected error for non-object trace")
	}
	if c.Mounted() {
		t.Fatalf("failed render must not mount anything")
	}
}

func TestBackend_RejectsForeignInstance(t *testing.T) {
	b := newBackend(t)
	foreign := &backend.Handle{ChartTarget: "a", BackendName: "svg"}
	if err := b.DisposeChart(foreign); !errors.Is(err, backend.ErrForeignInstance) {
		t.Fatalf("expected ErrForeignInstance, got %v", err)
	}
}

func TestBackend_ThemeDefaultsSitBeneathLayout(t *testing.T) {
	b, err := plotly.New(plotly.WithTheme(&theme.RendererConfig{
		Theme: "acme",
		Tokens: map[string]string{
			plotly.TokenColorway: "#111, #222",
			plotly.TokenFont:     "Inter",
			plotly.TokenPaper:    "#fff",
		},
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")

	layout := chart.Layout{"font": map[string]any{"size": 14}, "paper_bgcolor": "#000"}
	if _, err := b.RenderChart(context.Background(), c, nil, layout); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"colorway":["#111","#222"],"font":{"family":"Inter","size":14},"paper_bgcolor":"#000"}`
	if got := page.Fragment("a"); !strings.Contains(got, want) {
		t.Fatalf("theme defaults not merged\nwant substring: %s\n got: %s", want, got)
	}
}

func TestBackend_Scripts(t *testing.T) {
	b, err := plotly.New(plotly.WithScriptURL("/static/plotly.js"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := b.Scripts(); len(got) != 1 || got[0] != "/static/plotly.js" {
		t.Fatalf("unexpected scripts: %v", got)
	}
}

func newBackend(t *testing.T) *plotly.Backend {
	t.Helper()
	b, err := plotly.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return b
}

func TestBackend_ThemeLayout(t *testing.T) {
	b := newBackend(t)
	got := b.ThemeLayout(&theme.RendererConfig{Tokens: map[string]string{
		plotly.TokenText: "#222",
		plotly.TokenPlot: "#fafafa",
	}})
	want := chart.Layout{"font": map[string]any{"color": "#222"}, "plot_bgcolor": "#fafafa"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("theme layout mismatch (-want +got):\n%s", diff)
	}
	if got := b.ThemeLayout(nil); len(got) != 0 {
		t.Fatalf("expected empty layout for nil theme, got %v", got)
	}
}

func TestBackend_RestoreChartBringsBackLastDraw(t *testing.T) {
	b := newBackend(t)
	page := document.NewMemory("a")
	c, _ := page.ResolveContainer("a")
	ctx := context.Background()
	data := []chart.Series{chart.Series(`{"type":"bar","x":["KL"],"y":[3]}`)}

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
