package soilcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type requiredRule struct {
	validation.RequiredRule
}

// Required rejects empty values: "", 0, nil, and empty slices or maps. Use it
// only on fields where the zero value is never meaningful; a latitude of 0 is
// a real place.
var Required = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	schema.Required = append(schema.Required, name)
	return nil
}
