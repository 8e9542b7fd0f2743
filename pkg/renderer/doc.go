// Package renderer turns chart batches into live charts and owns their
// lifecycle.
//
// A Renderer pairs one backend.Backend with one document.Document. Render
// resolves every mount target before touching the page, so a batch that
// names an unknown container leaves the page exactly as it was. A backend
// failure part way through a batch is rolled back: charts created by the
// call are disposed and the charts they superseded are drawn again.
//
//	r, err := renderer.New(plotlyBackend, page)
//	instances, err := r.Render(ctx, batch)
//	defer r.DisposeAll()
package renderer
