package soilcheck

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Each returns a rule that applies rules to every element of a slice, array
// or map. In the schema the rules describe the item type.
func Each(rules ...Rule) Rule {
	return &eachRule{validation.Each(convertRules(rules...)...), rules}
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

func (r *eachRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	target := ref
	if ref.Value.Items != nil && ref.Value.Items.Value != nil {
		target = ref.Value.Items
	}
	for i := range r.rules {
		if err := r.rules[i].Describe(name, schema, target); err != nil {
			return err
		}
	}
	return nil
}
