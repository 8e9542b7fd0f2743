// Package schema checks that decoded payloads have the figures/ids shape.
package schema

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	payloadSchemaOnce sync.Once
	payloadSchema     *openapi3.Schema
)

// Payload returns the schema every payload must satisfy:
//
//	figures: array of {data: array, layout?: object|null}
//	ids:     array of non-empty strings
func Payload() *openapi3.Schema {
	payloadSchemaOnce.Do(func() {
		trace := &openapi3.Schema{}

		descriptor := openapi3.NewObjectSchema().
			WithProperty("data", openapi3.NewArraySchema().WithItems(trace)).
			WithProperty("layout", openapi3.NewObjectSchema().WithNullable())
		descriptor.Required = []string{"data"}

		root := openapi3.NewObjectSchema().
			WithProperty("figures", openapi3.NewArraySchema().WithItems(descriptor)).
			WithProperty("ids", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema().WithMinLength(1)))
		root.Required = []string{"figures", "ids"}

		payloadSchema = root
	})
	return payloadSchema
}

// Validate checks value, as produced by decoding JSON into any, against the
// payload schema. All violations are reported together.
func Validate(value any) error {
	if err := Payload().VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("payload shape: %w", err)
	}
	return nil
}
