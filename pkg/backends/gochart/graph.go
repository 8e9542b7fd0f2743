package gochart

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/goliatone/go-chartgen/pkg/chart"
)

// trace mirrors the Plotly trace vocabulary so payloads render on every
// backend.
type trace struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	X      []any  `json:"x"`
	Y      []any  `json:"y"`
	Labels []any  `json:"labels"`
	Values []any  `json:"values"`
}

type svgRequest struct {
	traces  []trace
	width   int
	height  int
	palette []drawing.Color
}

func decodeTraces(data []chart.Series) ([]trace, error) {
	traces := make([]trace, len(data))
	for i, series := range data {
		if err := series.Decode(&traces[i]); err != nil {
			return nil, fmt.Errorf("gochart backend: decode trace %d: %w", i, err)
		}
	}
	return traces, nil
}

// renderSVG draws the traces with go-chart. Bar and pie traces get their
// dedicated chart types; everything else is drawn as continuous lines.
func renderSVG(req svgRequest) ([]byte, error) {
	if len(req.traces) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	var err error

	switch kind := strings.ToLower(strings.TrimSpace(req.traces[0].Type)); kind {
	case "bar":
		err = renderBars(&buf, req)
	case "pie":
		err = renderPie(&buf, req)
	case "", "scatter", "line":
		err = renderLines(&buf, req)
	default:
		return nil, fmt.Errorf("gochart backend: unsupported trace type %q", req.traces[0].Type)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderLines(buf *bytes.Buffer, req svgRequest) error {
	graph := gochart.Chart{
		Width:  req.width,
		Height: req.height,
	}
	for i, tr := range req.traces {
		if kind := strings.ToLower(tr.Type); kind != "" && kind != "scatter" && kind != "line" {
			return fmt.Errorf("gochart backend: trace %d is %q, cannot share a line chart", i, tr.Type)
		}
		ys, err := numbers(tr.Y)
		if err != nil {
			return fmt.Errorf("gochart backend: trace %d y: %w", i, err)
		}
		xs := sequence(len(ys))
		if len(tr.X) > 0 {
			if xs, err = numbers(tr.X); err != nil {
				return fmt.Errorf("gochart backend: trace %d x: %w", i, err)
			}
			if len(xs) != len(ys) {
				return fmt.Errorf("gochart backend: trace %d has %d x values and %d y values", i, len(xs), len(ys))
			}
		}
		series := gochart.ContinuousSeries{
			Name:    seriesName(tr, i),
			XValues: xs,
			YValues: ys,
		}
		if color, ok := pick(req.palette, i); ok {
			series.Style = gochart.Style{StrokeColor: color}
		}
		graph.Series = append(graph.Series, series)
	}
	if len(graph.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	if err := graph.Render(gochart.SVG, buf); err != nil {
		return fmt.Errorf("gochart backend: render line chart: %w", err)
	}
	return nil
}

func renderBars(buf *bytes.Buffer, req svgRequest) error {
	if len(req.traces) > 1 {
		return fmt.Errorf("gochart backend: bar charts take a single trace, got %d", len(req.traces))
	}
	tr := req.traces[0]
	ys, err := numbers(tr.Y)
	if err != nil {
		return fmt.Errorf("gochart backend: trace 0 y: %w", err)
	}

	graph := gochart.BarChart{
		Width:  req.width,
		Height: req.height,
	}
	for i, value := range ys {
		bar := gochart.Value{Value: value, Label: label(tr.X, i)}
		if color, ok := pick(req.palette, i); ok {
			bar.Style = gochart.Style{FillColor: color, StrokeColor: color}
		}
		graph.Bars = append(graph.Bars, bar)
	}
	if err := graph.Render(gochart.SVG, buf); err != nil {
		return fmt.Errorf("gochart backend: render bar chart: %w", err)
	}
	return nil
}

func renderPie(buf *bytes.Buffer, req svgRequest) error {
	if len(req.traces) > 1 {
		return fmt.Errorf("gochart backend: pie charts take a single trace, got %d", len(req.traces))
	}
	tr := req.traces[0]
	values, err := numbers(tr.Values)
	if err != nil {
		return fmt.Errorf("gochart backend: trace 0 values: %w", err)
	}

	graph := gochart.PieChart{
		Width:  req.width,
		Height: req.height,
	}
	for i, value := range values {
		slice := gochart.Value{Value: value, Label: label(tr.Labels, i)}
		if color, ok := pick(req.palette, i); ok {
			slice.Style = gochart.Style{FillColor: color}
		}
		graph.Values = append(graph.Values, slice)
	}
	if err := graph.Render(gochart.SVG, buf); err != nil {
		return fmt.Errorf("gochart backend: render pie chart: %w", err)
	}
	return nil
}

func numbers(values []any) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case float64:
			out = append(out, v)
		case int:
			out = append(out, float64(v))
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("value %d %q is not numeric", i, v)
			}
			out = append(out, f)
		default:
			return nil, fmt.Errorf("value %d has unsupported type %T", i, value)
		}
	}
	return out, nil
}

func sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func label(values []any, index int) string {
	if index < len(values) && values[index] != nil {
		return fmt.Sprint(values[index])
	}
	return strconv.Itoa(index)
}

func seriesName(tr trace, index int) string {
	if name := strings.TrimSpace(tr.Name); name != "" {
		return name
	}
	return fmt.Sprintf("trace %d", index)
}

func pick(palette []drawing.Color, index int) (drawing.Color, bool) {
	if len(palette) == 0 {
		return drawing.Color{}, false
	}
	return palette[index%len(palette)], true
}

func layoutInt(layout chart.Layout, key string, fallback int) int {
	if n, ok := layout.Number(key); ok && n >= 1 {
		return int(n)
	}
	return fallback
}
