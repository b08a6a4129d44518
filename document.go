package soilcheck

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc is a function type that validates a value and returns an error if invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all validation rules implement. Validate
	// satisfies ozzo-validation's Rule; Describe writes the rule into an
	// OpenAPI schema.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		tag      string
		rules    []Rule
	}

	// Ruler is implemented by structs that declare rules for their fields.
	//
	//	func (r *Reading) Rules() []*FieldRules {
	//	    return []*FieldRules{
	//	        Field(&r.Lat, Latitude),
	//	        Field(&r.Lon, Longitude),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}

	// ContextRuler is like Ruler but receives the context passed to
	// [ValidateCtx].
	ContextRuler interface {
		Rules(ctx context.Context) []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (e.g. type Unit string)
	// that carry their own validation rules. The rules apply during both
	// validation and schema generation wherever the type appears as a field.
	ValueRuler interface {
		ValueRules() []Rule
	}
)
