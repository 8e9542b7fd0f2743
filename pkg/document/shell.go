package document

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	rendertemplate "github.com/goliatone/go-chartgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-chartgen/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const shellTemplate = "templates/shell.tmpl"

// TemplatesFS exposes the embedded shell page template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// ShellOption customises the generated shell page.
type ShellOption func(*shellConfig)

type shellConfig struct {
	title     string
	lang      string
	class     string
	theme     *theme.RendererConfig
	templates rendertemplate.TemplateRenderer
}

// WithTitle sets the page <title>.
func WithTitle(title string) ShellOption {
	return func(cfg *shellConfig) {
		cfg.title = strings.TrimSpace(title)
	}
}

// WithLang sets the html lang attribute.
func WithLang(lang string) ShellOption {
	return func(cfg *shellConfig) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			cfg.lang = trimmed
		}
	}
}

// WithBodyClass sets a class on <body>.
func WithBodyClass(class string) ShellOption {
	return func(cfg *shellConfig) {
		cfg.class = strings.TrimSpace(class)
	}
}

// WithTheme emits the theme's CSS variables in a :root block. Tokens are used
// as variables when the config carries no explicit CSSVars.
func WithTheme(cfg *theme.RendererConfig) ShellOption {
	return func(sc *shellConfig) {
		sc.theme = cfg
	}
}

// WithShellTemplateRenderer swaps the template renderer used for the page.
// The renderer must provide "templates/shell.tmpl".
func WithShellTemplateRenderer(renderer rendertemplate.TemplateRenderer) ShellOption {
	return func(cfg *shellConfig) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// Shell builds a minimal page with one empty container per id, for callers
// that have no host page of their own.
func Shell(ids []string, options ...ShellOption) (*HTML, error) {
	cfg := shellConfig{title: "Dashboard", lang: "en"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templates
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("document: configure shell template: %w", err)
		}
		renderer = engine
	}

	cleanIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cleanIDs = append(cleanIDs, trimmed)
		}
	}

	page, err := renderer.RenderTemplate(shellTemplate, map[string]any{
		"title":    cfg.title,
		"lang":     cfg.lang,
		"class":    cfg.class,
		"ids":      cleanIDs,
		"css_vars": themeVars(cfg.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("document: render shell: %w", err)
	}
	return ParseHTMLString(page)
}

func themeVars(cfg *theme.RendererConfig) []map[string]any {
	if cfg == nil {
		return nil
	}
	vars := cfg.CSSVars
	if len(vars) == 0 {
		vars = make(map[string]string, len(cfg.Tokens))
		for key, value := range cfg.Tokens {
			vars["--"+strings.ReplaceAll(key, ".", "-")] = value
		}
	}
	if len(vars) == 0 {
		return nil
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		value := cssValue(vars[name])
		if value == "" {
			continue
		}
		out = append(out, map[string]any{
			"name":  strings.TrimPrefix(name, "--"),
			"value": value,
		})
	}
	return out
}

// cssValue drops characters that could close the declaration or the style
// element.
func cssValue(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case '<', '>', '{', '}', ';', '\\':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
