package template

import (
	"io"
)

// TemplateRenderer is the seam backends and the shell page render their
// markup through. RenderTemplate writes the result to out (when given) in
// addition to returning it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
