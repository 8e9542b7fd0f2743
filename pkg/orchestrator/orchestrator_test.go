package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-chartgen/internal/payload/loader"
	"github.com/goliatone/go-chartgen/pkg/backend"
	"github.com/goliatone/go-chartgen/pkg/backends/gochart"
	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/orchestrator"
	"github.com/goliatone/go-chartgen/pkg/payload"
	"github.com/goliatone/go-chartgen/pkg/testsupport"
)

func TestGenerate_ShellPageWithDefaultBackend(t *testing.T) {
	orch := orchestrator.New()
	data := testsupport.MustReadGolden(t, filepath.Join("testdata", "billboards.json"))

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Source: payload.SourceFromBytes("billboards.json", data),
		Title:  "Billboards",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	page := string(out)
	for _, want := range []string{
		"<title>Billboards</title>",
		`<script src="` + "https://cdn.plot.ly/plotly-2.35.2.min.js" + `"></script>`,
		`<div id="impressions" class="chartgen-container"><script data-chartgen="plotly"`,
		`Plotly.newPlot("impressions"`,
		`Plotly.newPlot("ctr"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q:\n%s", want, page)
		}
	}
}

func TestGenerate_HostPage(t *testing.T) {
	host, err := os.Open(filepath.Join("testdata", "host.html"))
	if err != nil {
		t.Fatalf("open host page: %v", err)
	}
	defer host.Close()

	p := testsupport.LoadPayload(t, filepath.Join("testdata", "billboards.json"))
	out, err := orchestrator.New().Generate(context.Background(), orchestrator.Request{
		Payload: &p,
		Page:    host,
		Backend: "gochart",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	page := string(out)
	if !strings.Contains(page, `<section id="impressions"><h2>Impressions</h2><figure data-chartgen="gochart"`) {
		t.Fatalf("chart not mounted after existing content:\n%s", page)
	}
	if strings.Contains(page, "<script src=") {
		t.Fatalf("gochart needs no scripts:\n%s", page)
	}
	if strings.Count(page, "<svg") != 2 {
		t.Fatalf("expected two svg charts:\n%s", page)
	}
}

func TestGenerate_ErrorsSurfaceTaxonomy(t *testing.T) {
	orch := orchestrator.New()
	ctx := context.Background()

	mismatch := payload.Payload{Figures: []chart.Descriptor{{}, {}}, IDs: []string{"a"}}
	if _, err := orch.Generate(ctx, orchestrator.Request{Payload: &mismatch}); !errors.Is(err, chart.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}

	missing := payload.Payload{Figures: []chart.Descriptor{{}}, IDs: []string{"nowhere"}}
	_, err := orch.Generate(ctx, orchestrator.Request{
		Payload: &missing,
		Page:    strings.NewReader(`<html><body><div id="somewhere"></div></body></html>`),
	})
	if !errors.Is(err, chart.ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}

	bad := payload.Payload{
		Figures: []chart.Descriptor{{Data: []chart.Series{chart.Series(`[1]`)}}},
		IDs:     []string{"a"},
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{Payload: &bad}); !errors.Is(err, chart.ErrBackendRender) {
		t.Fatalf("expected ErrBackendRender, got %v", err)
	}

	if _, err := orch.Generate(ctx, orchestrator.Request{Payload: &missing, Backend: "matplotlib"}); !errors.Is(err, backend.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without source or payload")
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{Source: payload.SourceFromBytes("x", []byte(`{"figures": 1}`))}); !errors.Is(err, payload.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestGenerate_LoaderAndRegistryInjection(t *testing.T) {
	files := fstest.MapFS{"charts/today.yaml": {Data: []byte("figures:\n  - data: []\nids: [today]\n")}}
	loader := internalLoader.New(payload.NewLoaderOptions(payload.WithFileSystem(files)))

	svg, err := gochart.New()
	if err != nil {
		t.Fatalf("gochart: %v", err)
	}
	registry := backend.NewRegistry()
	registry.MustRegister(svg)

	orch := orchestrator.New(
		orchestrator.WithLoader(loader),
		orchestrator.WithRegistry(registry),
	)
	out, err := orch.Generate(context.Background(), orchestrator.Request{
		Source: payload.SourceFromFS("charts/today.yaml"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `data-chartgen="gochart"`) {
		t.Fatalf("expected fallback to the only registered backend:\n%s", out)
	}
	if got := orch.Backends(); len(got) != 1 || got[0] != "gochart" {
		t.Fatalf("unexpected backends %v", got)
	}
}

func TestOpen_SessionLifecycle(t *testing.T) {
	p := testsupport.LoadPayload(t, filepath.Join("testdata", "billboards.json"))
	ctx := context.Background()

	session, err := orchestrator.New().Open(ctx, orchestrator.Request{Payload: &p, Backend: "echarts"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := len(session.Instances()); got != 2 {
		t.Fatalf("expected 2 instances, got %d", got)
	}

	next := testsupport.Descriptor(chart.Layout{"title": "Refreshed"},
		map[string]any{"type": "bar", "x": []string{"KL"}, "y": []int{7}})
	if _, err := session.Update(ctx, "ctr", next); err != nil {
		t.Fatalf("update: %v", err)
	}
	out, err := session.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if !strings.Contains(string(out), `"text":"Refreshed"`) {
		t.Fatalf("update not reflected in page:\n%s", out)
	}

	if err := session.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out, err = session.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if strings.Contains(string(out), `data-chartgen="echarts"`) {
		t.Fatalf("charts remain after close:\n%s", out)
	}
}

func TestGenerate_ThemeSelection(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456", "chart.colorway": "#111,#222"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"chart.paper": "#000000"}},
			},
		},
	}}

	p := payload.Payload{Figures: []chart.Descriptor{{}}, IDs: []string{"a"}}
	out, err := orchestrator.New(orchestrator.WithThemeSelector(selector)).Generate(context.Background(), orchestrator.Request{
		Payload:      &p,
		ThemeName:    "acme",
		ThemeVariant: "dark",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 || selector.calls[0] != [2]string{"acme", "dark"} {
		t.Fatalf("unexpected selector calls %v", selector.calls)
	}
	page := string(out)
	for _, want := range []string{
		"--brand: #123456;",
		"--chart-paper: #000000;",
		`"colorway":["#111","#222"]`,
		`"paper_bgcolor":"#000000"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q:\n%s", want, page)
		}
	}

	selector.err = errors.New("unknown theme")
	if _, err := orchestrator.New(orchestrator.WithThemeSelector(selector)).Generate(context.Background(), orchestrator.Request{Payload: &p}); err == nil {
		t.Fatalf("expected selector error")
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}
