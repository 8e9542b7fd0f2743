package payload

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-chartgen/internal/payload/schema"
	"github.com/goliatone/go-chartgen/pkg/chart"
)

// ErrInvalidPayload reports a payload that is not JSON or YAML, or does not
// have the figures/ids shape.
var ErrInvalidPayload = errors.New("payload: invalid payload")

// Payload is the parallel-array shape producers serialise: figures[i] renders
// into the element whose id is ids[i].
type Payload struct {
	Figures []chart.Descriptor `json:"figures"`
	IDs     []string           `json:"ids"`
}

// FromBatch converts a batch back into the parallel-array shape.
func FromBatch(batch chart.Batch) Payload {
	return Payload{Figures: batch.Descriptors(), IDs: batch.Targets()}
}

// Batch zips the figures and ids into pairs. Arrays of different lengths fail
// with chart.ErrLengthMismatch.
func (p Payload) Batch() (chart.Batch, error) {
	return chart.NewBatch(p.IDs, p.Figures)
}

// Decode parses a JSON or YAML payload and validates its shape.
func Decode(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Payload{}, fmt.Errorf("%w: document is empty", ErrInvalidPayload)
	}

	generic, canonical, err := normalise(trimmed)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := schema.Validate(generic); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	var out Payload
	if err := json.Unmarshal(canonical, &out); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return out, nil
}

// normalise returns the document as generic values for schema checks and as
// canonical JSON for typed decoding. YAML documents are converted to JSON.
func normalise(data []byte) (any, []byte, error) {
	var generic any
	jsonErr := json.Unmarshal(data, &generic)
	if jsonErr == nil {
		return generic, data, nil
	}

	if yamlErr := yaml.Unmarshal(data, &generic); yamlErr != nil {
		return nil, nil, fmt.Errorf("document is neither JSON (%v) nor YAML (%v)", jsonErr, yamlErr)
	}
	generic = stringKeys(generic)
	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	// Re-read so numbers carry the same types as a JSON source.
	var reread any
	if err := json.Unmarshal(canonical, &reread); err != nil {
		return nil, nil, fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return reread, canonical, nil
}

func stringKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = stringKeys(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stringKeys(item)
		}
		return out
	default:
		return v
	}
}
