package payload

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a payload lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindURL   SourceKind = "url"
	SourceKindBytes SourceKind = "bytes"
)

// BytesProvider is implemented by sources that carry their content inline.
type BytesProvider interface {
	Bytes() []byte
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }

func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }

func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source naming a file inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }

func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("payload: empty URL source")
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		panic(fmt.Sprintf("payload: invalid URL %q: %v", raw, err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		panic(fmt.Sprintf("payload: unsupported URL scheme %q", parsed.Scheme))
	}
	return urlSource{raw: raw}
}

type bytesSource struct {
	name string
	data []byte
}

func (s bytesSource) Location() string { return s.name }

func (s bytesSource) Kind() SourceKind { return SourceKindBytes }

func (s bytesSource) Bytes() []byte { return append([]byte(nil), s.data...) }

// SourceFromBytes wraps an in-memory payload, typically one embedded in a
// page by the server. name is only used in error messages.
func SourceFromBytes(name string, data []byte) Source {
	if name == "" {
		name = "inline"
	}
	return bytesSource{name: name, data: append([]byte(nil), data...)}
}
