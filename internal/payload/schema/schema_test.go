package schema_test

import (
	"testing"

	"github.com/goliatone/go-chartgen/internal/payload/schema"
)

func TestValidate(t *testing.T) {
	valid := map[string]any{
		"figures": []any{
			map[string]any{"data": []any{map[string]any{"type": "bar"}}, "layout": nil},
			map[string]any{"data": []any{}, "layout": map[string]any{"title": "x"}},
		},
		"ids": []any{"a", "b"},
	}
	if err := schema.Validate(valid); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	invalid := map[string]any{
		"figures": []any{map[string]any{"layout": map[string]any{}}},
		"ids":     []any{float64(1)},
	}
	if err := schema.Validate(invalid); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPayload_IsShared(t *testing.T) {
	if schema.Payload() != schema.Payload() {
		t.Fatalf("schema should be built once")
	}
}
