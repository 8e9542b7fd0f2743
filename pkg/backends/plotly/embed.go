package plotly

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded fragment templates so callers can copy or
// extend them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
