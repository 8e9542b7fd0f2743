package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-chartgen/pkg/chart"
	"github.com/goliatone/go-chartgen/pkg/payload"
)

// LoadPayload reads and decodes a payload fixture, failing the test on error.
func LoadPayload(t *testing.T, path string) payload.Payload {
	t.Helper()

	p, err := LoadPayloadFromPath(path)
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	return p
}

// LoadPayloadFromPath decodes a payload fixture without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadPayloadFromPath(path string) (payload.Payload, error) {
	if path == "" {
		return payload.Payload{}, errors.New("testsupport: payload path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("testsupport: read payload: %w", err)
	}
	p, err := payload.Decode(data)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("testsupport: decode payload: %w", err)
	}
	return p, nil
}

// MustBatch loads a payload fixture and zips it into a batch.
func MustBatch(t *testing.T, path string) chart.Batch {
	t.Helper()

	batch, err := LoadPayload(t, path).Batch()
	if err != nil {
		t.Fatalf("batch from %s: %v", path, err)
	}
	return batch
}

// Descriptor builds a descriptor from plain values. Traces go through
// chart.MustSeries so fixtures stay readable.
func Descriptor(layout chart.Layout, traces ...any) chart.Descriptor {
	data := make([]chart.Series, len(traces))
	for i, trace := range traces {
		data[i] = chart.MustSeries(trace)
	}
	return chart.Descriptor{Data: data, Layout: layout}
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, data)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// AssertGolden compares got against the golden file, rewriting the golden
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
