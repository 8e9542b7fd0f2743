package plotly

import (
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-chartgen/pkg/chart"
	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
)

// DefaultScriptURL is the Plotly bundle pages load when no override is set.
const DefaultScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Theme tokens mapped onto layout defaults.
const (
	TokenColorway = "chart.colorway"
	TokenFont     = "chart.font"
	TokenText     = "chart.text"
	TokenPaper    = "chart.paper"
	TokenPlot     = "chart.plot"
)

// Option customises the backend configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	scriptURL        string
	plotConfig       map[string]any
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/plot.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithScriptURL overrides the Plotly bundle URL reported through Scripts.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		cfg.scriptURL = strings.TrimSpace(url)
	}
}

// WithPlotConfig sets the Plotly config object (displayModeBar, responsive,
// ...) passed as the fourth argument of every plot call.
func WithPlotConfig(plotConfig map[string]any) Option {
	return func(cfg *config) {
		cfg.plotConfig = plotConfig
	}
}

// WithTheme derives layout defaults from theme tokens. Descriptor layouts
// always win over theme defaults.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

func themeLayout(cfg *theme.RendererConfig) chart.Layout {
	layout := chart.Layout{}
	if cfg == nil || len(cfg.Tokens) == 0 {
		return layout
	}
	tokens := cfg.Tokens

	if raw := strings.TrimSpace(tokens[TokenColorway]); raw != "" {
		var colors []any
		for _, color := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(color); trimmed != "" {
				colors = append(colors, trimmed)
			}
		}
		if len(colors) > 0 {
			layout["colorway"] = colors
		}
	}

	font := map[string]any{}
	if family := strings.TrimSpace(tokens[TokenFont]); family != "" {
		font["family"] = family
	}
	if color := strings.TrimSpace(tokens[TokenText]); color != "" {
		font["color"] = color
	}
	if len(font) > 0 {
		layout["font"] = font
	}

	if paper := strings.TrimSpace(tokens[TokenPaper]); paper != "" {
		layout["paper_bgcolor"] = paper
	}
	if plot := strings.TrimSpace(tokens[TokenPlot]); plot != "" {
		layout["plot_bgcolor"] = plot
	}
	return layout
}
