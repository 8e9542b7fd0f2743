package chartgen

import (
	internalLoader "github.com/goliatone/go-chartgen/internal/payload/loader"
	"github.com/goliatone/go-chartgen/pkg/payload"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...payload.LoaderOption) payload.Loader {
	cfg := payload.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
