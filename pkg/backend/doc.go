// Package backend defines the charting backend capability the renderer
// depends on, plus a name-keyed registry so callers can swap charting engines
// without touching the render pipeline.
package backend
