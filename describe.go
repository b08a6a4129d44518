package soilcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// docRule is a rule that only affects the schema.
type docRule struct {
	apply func(ref *openapi3.SchemaRef)
}

func (r docRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	r.apply(ref)
	return nil
}

func (docRule) Validate(any) error {
	return nil
}

// Describe returns a documentation-only rule that appends desc to the schema description.
func Describe(desc string) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { appendDescription(ref, desc) }}
}

// Example returns a documentation-only rule that sets the schema example value.
func Example(ex any) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { ref.Value.Example = ex }}
}

// Default returns a documentation-only rule that sets the schema default value.
func Default(a any) Rule {
	return docRule{func(ref *openapi3.SchemaRef) { ref.Value.Default = a }}
}
