package gochart

import (
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/wcharczuk/go-chart/v2/drawing"

	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
)

// TokenColorway lists the series palette as comma separated hex colours.
const TokenColorway = "chart.colorway"

const (
	defaultWidth  = 800
	defaultHeight = 450
)

// Option customises the backend configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	width            int
	height           int
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate bundle providing templates/figure.tmpl.
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

// WithSize sets the SVG size used when the layout has no width or height.
func WithSize(width, height int) Option {
	return func(cfg *config) {
		if width > 0 {
			cfg.width = width
		}
		if height > 0 {
			cfg.height = height
		}
	}
}

// WithTheme reads the series palette from theme tokens.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

func paletteFrom(cfg *theme.RendererConfig) []drawing.Color {
	if cfg == nil {
		return nil
	}
	return parsePalette(strings.Split(cfg.Tokens[TokenColorway], ","))
}

func parsePalette(raw []string) []drawing.Color {
	var colors []drawing.Color
	for _, value := range raw {
		hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
		if hex == "" {
			continue
		}
		colors = append(colors, drawing.ColorFromHex(hex))
	}
	return colors
}
