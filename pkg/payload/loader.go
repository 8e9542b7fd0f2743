package payload

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches raw payload documents. The implementation lives under
// internal/payload/loader and is constructed through chartgen.NewLoader.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources. HTTP stays disabled
// unless a client or the fallback is configured.
type LoaderOptions struct {
	// FileSystem backs SourceFromFS lookups.
	FileSystem fs.FS

	// HTTPClient enables URL sources with custom transport behaviour.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// MaxBytes bounds the size of remote payloads. Zero means unlimited.
	MaxBytes int64
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceFromFS.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote payloads.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithMaxBytes limits how much of a remote body is read.
func WithMaxBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxBytes = limit
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Document wraps a raw payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("payload: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("payload: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Payload decodes the document.
func (d Document) Payload() (Payload, error) {
	p, err := Decode(d.raw)
	if err != nil && d.Location() != "" {
		return Payload{}, &LocatedError{Location: d.Location(), Err: err}
	}
	return p, err
}

// Load fetches src with loader and decodes it in one step.
func Load(ctx context.Context, loader Loader, src Source) (Payload, error) {
	if loader == nil {
		return Payload{}, errors.New("payload: loader is nil")
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return Payload{}, err
	}
	return doc.Payload()
}

// LocatedError attaches the payload origin to a decode failure.
type LocatedError struct {
	Location string
	Err      error
}

func (e *LocatedError) Error() string {
	return e.Location + ": " + e.Err.Error()
}

func (e *LocatedError) Unwrap() error {
	return e.Err
}
