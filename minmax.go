package soilcheck

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type thresholdRule struct {
	validation.ThresholdRule
	threshold float64
	min       bool
}

// Min returns a rule requiring a number greater than or equal to threshold.
// Like all ozzo threshold rules it skips empty values, so 0 always passes.
func Min(threshold float64) Rule {
	return thresholdRule{validation.Min(threshold), threshold, true}
}

// Max returns a rule requiring a number less than or equal to threshold.
func Max(threshold float64) Rule {
	return thresholdRule{validation.Max(threshold), threshold, false}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	t := r.threshold
	if r.min {
		ref.Value.Min = &t
	} else {
		ref.Value.Max = &t
	}
	return nil
}

// Validate accepts any Go numeric kind and json.Number, comparing as float64.
func (r thresholdRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	f, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("must be a number, got %T", value)
	}
	return r.ThresholdRule.Validate(f)
}
