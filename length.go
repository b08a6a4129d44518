package soilcheck

import (
	"html"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length returns a rule bounding the rune length of a string or the number
// of elements in a slice or map. A max of 0 means no upper bound.
func Length(lo, hi int) Rule {
	return &lengthRule{validation.RuneLength(lo, hi), lo, hi}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	lo, hi := uint64(r.min), uint64(r.max)
	if ref.Value.Type.Is(openapi3.TypeArray) {
		ref.Value.MinItems = lo
		if r.max > 0 {
			ref.Value.MaxItems = &hi
		}
		return nil
	}
	ref.Value.MinLength = lo
	if r.max > 0 {
		ref.Value.MaxLength = &hi
	}
	return nil
}

// TextLength is like [Length] but counts the runes of a string after undoing
// HTML escaping, so the bound applies to the text as submitted even when a
// normalizer escaped it before validation.
func TextLength(lo, hi int) Rule {
	return &textLengthRule{lengthRule{validation.RuneLength(lo, hi), lo, hi}}
}

type textLengthRule struct {
	lengthRule
}

func (r *textLengthRule) Validate(value any) error {
	if s, ok := asString(value); ok {
		value = html.UnescapeString(s)
	}
	return r.lengthRule.Validate(value)
}
