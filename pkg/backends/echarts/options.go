package echarts

import (
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
)

// DefaultScriptURL is the ECharts bundle pages load when no override is set.
const DefaultScriptURL = "https://cdn.jsdelivr.net/npm/echarts@5.5.1/dist/echarts.min.js"

// Theme tokens read by the backend.
const (
	TokenColorway = "chart.colorway"
	TokenPaper    = "chart.paper"
	// TokenEChartsTheme names a registered ECharts theme ("dark", "vintage").
	TokenEChartsTheme = "chart.echarts-theme"
)

const (
	defaultWidth  = "900px"
	defaultHeight = "500px"
)

// Option customises the backend configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	scriptURL        string
	width            string
	height           string
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate bundle providing templates/chart.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
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

// WithScriptURL overrides the ECharts bundle URL reported through Scripts.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		cfg.scriptURL = strings.TrimSpace(url)
	}
}

// WithSize sets the container size used when the layout carries no width or
// height. Values are CSS lengths.
func WithSize(width, height string) Option {
	return func(cfg *config) {
		if w := strings.TrimSpace(width); w != "" {
			cfg.width = w
		}
		if h := strings.TrimSpace(height); h != "" {
			cfg.height = h
		}
	}
}

// WithTheme reads the palette, background and ECharts theme name from
// theme tokens.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

type themeDefaults struct {
	colors     []string
	background string
	name       string
}

func themeFrom(cfg *theme.RendererConfig) themeDefaults {
	var out themeDefaults
	if cfg == nil {
		return out
	}
	out.colors = splitColors(cfg.Tokens[TokenColorway])
	out.background = strings.TrimSpace(cfg.Tokens[TokenPaper])
	out.name = strings.TrimSpace(cfg.Tokens[TokenEChartsTheme])
	return out
}

func splitColors(raw string) []string {
	var colors []string
	for _, color := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(color); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}
