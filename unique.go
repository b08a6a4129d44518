package soilcheck

import (
	"errors"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type uniqueRule struct {
	key  func(i int) any
	desc string
}

// Unique returns a rule requiring key(i) to differ for every element i of a
// slice or array. desc documents the key in the schema.
func Unique(key func(i int) any, desc string) Rule {
	return uniqueRule{key: key, desc: desc}
}

func (r uniqueRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	appendDescription(ref, r.desc)
	return nil
}

func (r uniqueRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.New("must be a list")
	}
	seen := make(map[any]struct{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		k := r.key(i)
		if _, dup := seen[k]; dup {
			return errors.New("must be unique: " + r.desc)
		}
		seen[k] = struct{}{}
	}
	return nil
}
