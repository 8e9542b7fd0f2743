package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-chartgen/pkg/payload"
)

// Loader implements payload.Loader by delegating to file, fs.FS, HTTP or
// inline strategies. Construction helpers live in the top-level chartgen
// package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	maxBytes  int64
}

var _ payload.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options payload.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		maxBytes:  options.MaxBytes,
	}
}

// Load fetches the payload named by src.
func (l *Loader) Load(ctx context.Context, src payload.Source) (payload.Document, error) {
	if src == nil {
		return payload.Document{}, errors.New("payload loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case payload.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case payload.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case payload.SourceKindURL:
		if !l.allowHTTP {
			return payload.Document{}, errors.New("payload loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.maxBytes)
	case payload.SourceKindBytes:
		provider, ok := src.(payload.BytesProvider)
		if !ok {
			return payload.Document{}, errors.New("payload loader: inline source carries no bytes")
		}
		data = provider.Bytes()
	default:
		err = fmt.Errorf("payload loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return payload.Document{}, err
	}

	return payload.NewDocument(src, data)
}
