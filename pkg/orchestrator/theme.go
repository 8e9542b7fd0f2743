package orchestrator

import (
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection), nil
}

// rendererConfig flattens a selection into the configuration backends and the
// shell consume. Variant tokens, templates and assets override the base
// manifest.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   map[string]string{},
		Partials: map[string]string{},
		CSSVars:  map[string]string{},
	}

	prefix := ""
	files := map[string]string{}
	if manifest := selection.Manifest; manifest != nil {
		mergeStrings(cfg.Tokens, manifest.Tokens)
		mergeStrings(cfg.Partials, manifest.Templates)
		prefix = manifest.Assets.Prefix
		mergeStrings(files, manifest.Assets.Files)

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeStrings(cfg.Tokens, variant.Tokens)
			mergeStrings(cfg.Partials, variant.Templates)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			mergeStrings(files, variant.Assets.Files)
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + path.Clean(file)
	}
	return cfg
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
