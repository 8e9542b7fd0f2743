// Package chart holds the backend-agnostic data model shared by the renderer,
// the payload decoder, and every charting backend: series, layouts,
// descriptors, and the positional batches that pair descriptors with mount
// targets. It also defines the error taxonomy returned by the render pipeline.
package chart
