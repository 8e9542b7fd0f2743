package echarts

import (
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/goliatone/go-chartgen/pkg/chart"
)

type kind string

const (
	kindLine kind = "line"
	kindBar  kind = "bar"
	kindPie  kind = "pie"
)

// trace is the subset of the Plotly trace vocabulary the ECharts backend
// understands, so the same payload renders on either backend.
type trace struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	X      []any  `json:"x"`
	Y      []any  `json:"y"`
	Labels []any  `json:"labels"`
	Values []any  `json:"values"`
}

func (t trace) kind() (kind, error) {
	switch strings.ToLower(strings.TrimSpace(t.Type)) {
	case "", "scatter", "line":
		return kindLine, nil
	case "bar":
		return kindBar, nil
	case "pie":
		return kindPie, nil
	default:
		return "", fmt.Errorf("unsupported trace type %q", t.Type)
	}
}

func decodeTraces(data []chart.Series) ([]trace, kind, error) {
	if len(data) == 0 {
		return nil, kindLine, nil
	}
	traces := make([]trace, len(data))
	var chartKind kind
	for i, series := range data {
		if err := series.Decode(&traces[i]); err != nil {
			return nil, "", fmt.Errorf("echarts backend: decode trace %d: %w", i, err)
		}
		k, err := traces[i].kind()
		if err != nil {
			return nil, "", fmt.Errorf("echarts backend: trace %d: %w", i, err)
		}
		if i == 0 {
			chartKind = k
			continue
		}
		if k != chartKind {
			return nil, "", fmt.Errorf("echarts backend: trace %d is %s, cannot share a chart with %s", i, k, chartKind)
		}
	}
	if chartKind == kindPie && len(traces) > 1 {
		return nil, "", fmt.Errorf("echarts backend: pie charts take a single trace, got %d", len(traces))
	}
	return traces, chartKind, nil
}

// buildOption assembles the ECharts option object for the traces.
func buildOption(target string, data []chart.Series, layout chart.Layout, defaults themeDefaults, size [2]string) (map[string]any, error) {
	traces, chartKind, err := decodeTraces(data)
	if err != nil {
		return nil, err
	}

	global := globalOptions(target, layout, defaults, size)

	switch chartKind {
	case kindBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(categories(traces))
		for i, tr := range traces {
			items := make([]opts.BarData, 0, len(tr.Y))
			for _, value := range tr.Y {
				items = append(items, opts.BarData{Value: value})
			}
			bar.AddSeries(seriesName(tr, i), items)
		}
		bar.Validate()
		return bar.JSON(), nil
	case kindPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		tr := traces[0]
		if len(tr.Labels) != len(tr.Values) {
			return nil, fmt.Errorf("echarts backend: pie trace has %d labels and %d values", len(tr.Labels), len(tr.Values))
		}
		items := make([]opts.PieData, 0, len(tr.Values))
		for i, value := range tr.Values {
			items = append(items, opts.PieData{Name: fmt.Sprint(tr.Labels[i]), Value: value})
		}
		pie.AddSeries(seriesName(tr, 0), items)
		pie.Validate()
		return pie.JSON(), nil
	default:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(categories(traces))
		for i, tr := range traces {
			items := make([]opts.LineData, 0, len(tr.Y))
			for _, value := range tr.Y {
				items = append(items, opts.LineData{Value: value})
			}
			line.AddSeries(seriesName(tr, i), items)
		}
		line.Validate()
		return line.JSON(), nil
	}
}

func globalOptions(target string, layout chart.Layout, defaults themeDefaults, size [2]string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		ChartID:         target,
		Width:           size[0],
		Height:          size[1],
		BackgroundColor: defaults.background,
	}
	if bg, ok := layout.String("paper_bgcolor"); ok {
		initOpts.BackgroundColor = bg
	}

	title := opts.Title{Title: layout.Title()}
	if subtitle, ok := layout.String("subtitle"); ok {
		title.Subtitle = subtitle
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(title),
	}
	if colors := layoutColors(layout, defaults.colors); len(colors) > 0 {
		global = append(global, charts.WithColorsOpts(opts.Colors(colors)))
	}
	return global
}

// categories uses the longest x array so every series has an axis slot.
func categories(traces []trace) []string {
	var longest []any
	for _, tr := range traces {
		if len(tr.X) > len(longest) {
			longest = tr.X
		}
	}
	out := make([]string, len(longest))
	for i, value := range longest {
		out[i] = fmt.Sprint(value)
	}
	return out
}

func seriesName(tr trace, index int) string {
	if name := strings.TrimSpace(tr.Name); name != "" {
		return name
	}
	return fmt.Sprintf("trace %d", index)
}

func layoutColors(layout chart.Layout, fallback []string) []string {
	raw, ok := layout["colorway"].([]any)
	if !ok {
		return fallback
	}
	colors := make([]string, 0, len(raw))
	for _, value := range raw {
		if color, ok := value.(string); ok && strings.TrimSpace(color) != "" {
			colors = append(colors, strings.TrimSpace(color))
		}
	}
	if len(colors) == 0 {
		return fallback
	}
	return colors
}

func layoutSize(layout chart.Layout, key, fallback string) string {
	if n, ok := layout.Number(key); ok && n > 0 {
		return fmt.Sprintf("%gpx", n)
	}
	if s, ok := layout.String(key); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}
