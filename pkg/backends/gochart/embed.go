package gochart

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// TemplatesFS exposes the embedded figure template.
func TemplatesFS() fs.FS {
	return templatesFS
}
