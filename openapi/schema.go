package openapi

import (
	"github.com/Gobd/soilcheck"
	"github.com/getkin/kin-openapi/openapi3"
)

// NewSchemaRefForValue generates an OpenAPI schema for the given value,
// applying validation rules from types that implement [soilcheck.Ruler],
// [soilcheck.ContextRuler], or [soilcheck.ValueRuler].
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	return soilcheck.NewSchemaRefForValue(value)
}
