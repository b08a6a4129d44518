package soilcheck

import (
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	desc    string
	pattern string
}

// NewStringRule returns a string validation rule using desc as both the error
// message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{StringRule: validation.NewStringRule(validator, desc), desc: desc}
}

// Pattern returns a rule requiring strings to match re. The expression is
// copied into the schema's pattern.
func Pattern(re *regexp.Regexp, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(re.MatchString, desc),
		desc:       desc,
		pattern:    re.String(),
	}
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.pattern != "" {
		ref.Value.Pattern = r.pattern
	}
	appendDescription(ref, r.desc)
	return nil
}
