package soilcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NotNil rejects nil pointers, slices, maps and interfaces but accepts a
// pointer to a zero value. Use it instead of [Required] where 0 or "" is a
// real answer.
var NotNil = notNilRule{Rule: validation.NotNil}

type notNilRule struct {
	validation.Rule
}

func (r notNilRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	schema.Required = append(schema.Required, name)
	return nil
}
