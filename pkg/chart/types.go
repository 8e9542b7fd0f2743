package chart

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Series is one backend-specific trace (points, trace type, styling). The
// pipeline never interprets it; the raw JSON reaches the backend unmodified.
type Series []byte

// MarshalJSON emits the raw trace, or null when empty.
func (s Series) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(s), nil
}

// UnmarshalJSON keeps a private copy of the raw trace.
func (s *Series) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("chart: unmarshal into nil series")
	}
	*s = append((*s)[:0], data...)
	return nil
}

// Decode unmarshals the trace into dest. Backends that interpret traces use
// this instead of touching the raw bytes.
func (s Series) Decode(dest any) error {
	if len(bytes.TrimSpace(s)) == 0 {
		return fmt.Errorf("chart: series is empty")
	}
	return json.Unmarshal(s, dest)
}

// Layout is the backend-specific chart configuration (titles, axes, sizing).
type Layout map[string]any

// Clone returns a deep copy of the layout. A nil layout clones to an empty one.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for key, value := range l {
		out[key] = cloneValue(value)
	}
	return out
}

// Merge returns a copy of l with overrides applied on top. Nested objects are
// merged key by key; any other value in overrides replaces the original.
func (l Layout) Merge(overrides Layout) Layout {
	out := l.Clone()
	for key, value := range overrides {
		out[key] = mergeValue(out[key], value)
	}
	return out
}

// String returns the value at key when it is a string.
func (l Layout) String(key string) (string, bool) {
	value, ok := l[key].(string)
	return value, ok
}

// Number returns the value at key when it is numeric.
func (l Layout) Number(key string) (float64, bool) {
	switch v := l[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Title extracts a chart title, accepting both the plain string form and the
// {"text": "..."} object form.
func (l Layout) Title() string {
	switch v := l["title"].(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return text
		}
	case Layout:
		if text, ok := v["text"].(string); ok {
			return text
		}
	}
	return ""
}

func mergeValue(base, override any) any {
	baseMap, baseOK := asMap(base)
	overrideMap, overrideOK := asMap(override)
	if !baseOK || !overrideOK {
		return cloneValue(override)
	}
	merged := make(map[string]any, len(baseMap)+len(overrideMap))
	for key, value := range baseMap {
		merged[key] = cloneValue(value)
	}
	for key, value := range overrideMap {
		merged[key] = mergeValue(merged[key], value)
	}
	return merged
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Layout:
		return map[string]any(v), true
	default:
		return nil, false
	}
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case Layout:
		return map[string]any(v.Clone())
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Descriptor is the declarative specification of one chart.
type Descriptor struct {
	// Data is ordered; render order may affect z-ordering.
	Data []Series `json:"data"`
	// Layout defaults to an empty configuration when absent.
	Layout Layout `json:"layout,omitempty"`
}

// Normalize returns a copy with a non-nil layout.
func (d Descriptor) Normalize() Descriptor {
	out := Descriptor{
		Data:   make([]Series, len(d.Data)),
		Layout: d.Layout.Clone(),
	}
	for i, series := range d.Data {
		out.Data[i] = append(Series(nil), series...)
	}
	return out
}

// Validate rejects descriptors whose traces are missing or not valid JSON.
// The trace contents are left for the backend to judge.
func (d Descriptor) Validate() error {
	for i, series := range d.Data {
		trimmed := bytes.TrimSpace(series)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("%w: series %d is empty", ErrInvalidDescriptor, i)
		}
		if !json.Valid(trimmed) {
			return fmt.Errorf("%w: series %d is not valid JSON", ErrInvalidDescriptor, i)
		}
	}
	return nil
}

// Equal reports whether two descriptors carry the same traces and layout.
func (d Descriptor) Equal(other Descriptor) bool {
	if len(d.Data) != len(other.Data) {
		return false
	}
	for i := range d.Data {
		if !bytes.Equal(bytes.TrimSpace(d.Data[i]), bytes.TrimSpace(other.Data[i])) {
			return false
		}
	}
	left, err := json.Marshal(d.Layout.Clone())
	if err != nil {
		return false
	}
	right, err := json.Marshal(other.Layout.Clone())
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}

// MustSeries marshals value into a Series, panicking on failure. Useful for
// fixtures and tests.
func MustSeries(value any) Series {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return Series(data)
}
