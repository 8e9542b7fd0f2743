package chartgen

import (
	"io/fs"

	"github.com/goliatone/go-chartgen/pkg/backends/plotly"
)

// EmbeddedTemplates exposes the built-in plotly backend templates so callers
// can reuse or extend them without importing the backend package directly.
func EmbeddedTemplates() fs.FS {
	return plotly.TemplatesFS()
}
