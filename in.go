package soilcheck

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errNotIn = validation.NewError("validation_in_invalid", "must be one of {{.values}} got '{{.got}}'")

// In returns a rule requiring the value to equal one of values. The values
// become the schema's enum, so they should be of the field's JSON type.
func In(values ...any) Rule {
	quoted := make([]string, len(values))
	for i := range values {
		quoted[i] = fmt.Sprintf("'%v'", values[i])
	}
	return &inRule{
		InRule: validation.In(values...),
		values: values,
		list:   strings.Join(quoted, ", "),
	}
}

type inRule struct {
	validation.InRule
	values []any
	list   string
}

func (r *inRule) Validate(value any) error {
	if r.InRule.Validate(value) == nil {
		return nil
	}
	got, _ := validation.Indirect(value)
	return errNotIn.SetParams(map[string]any{"values": r.list, "got": got})
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}
