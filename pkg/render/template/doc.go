// Package template defines the renderer-agnostic template seam shared by the
// charting backends and the shell page builder. The pongo2-backed
// implementation lives in the gotemplate subpackage.
package template
