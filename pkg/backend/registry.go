package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownBackend is returned when a lookup names no registered backend.
var ErrUnknownBackend = errors.New("backend: unknown backend")

// Registry stores backends under their normalized Name(). Lookups are
// case-insensitive so CLI and payload callers can write "Plotly" or "plotly".
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend under its Name(). Names that normalize to the same
// key collide, and names containing whitespace are rejected because they
// cannot be selected from a flag.
func (r *Registry) Register(b Backend) error {
	if b == nil {
		return errors.New("backend: backend is required")
	}
	raw := b.Name()
	key := normalizeName(raw)
	if key == "" {
		return errors.New("backend: backend name is required")
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("backend: backend name %q contains whitespace", raw)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.backends[key]; exists {
		return fmt.Errorf("backend: backend %q already registered as %q", raw, existing.Name())
	}

	r.backends[key] = b
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(b Backend) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get retrieves a backend by name. Unknown names fail with ErrUnknownBackend
// and the error lists what is registered.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownBackend, name, strings.Join(r.namesLocked(), ", "))
	}
	return b, nil
}

// MustGet panics if the backend is missing.
func (r *Registry) MustGet(name string) Backend {
	b, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return b
}

// List returns the registered backend keys in lexical order. The order is
// what fallback selection and the CLI prompt rely on.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Has reports whether a backend is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.backends[normalizeName(name)]
	return ok
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
