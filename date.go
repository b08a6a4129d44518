package soilcheck

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const fnValidateDate = "ValidateDate"

// maxTimestampMillis bounds numeric timestamps to the range a browser Date
// can represent (±100,000,000 days around the Unix epoch).
const maxTimestampMillis = 8.64e15

// ValidateDate reports whether value denotes a real calendar instant:
//   - a string matching one of the validator's date layouts,
//   - a finite number of Unix milliseconds within ±8.64e15,
//   - a non-zero time.Time or *time.Time.
//
// Everything else, including nil, is rejected.
func (v *Validator) ValidateDate(value any) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateDate, p, value)
			ok = false
		}
	}()

	if reason := v.checkDate(value); reason != "" {
		v.reject(fnValidateDate, reason, slog.Any("value", value))
		return false
	}
	return true
}

func (v *Validator) checkDate(value any) Reason {
	value, isNil := validation.Indirect(value)
	if isNil {
		return ReasonTypeMismatch
	}
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return ReasonParseFailure
		}
		return ""
	}
	if ms, ok := toFloat(value); ok {
		switch {
		case !isFinite(ms):
			return ReasonNotFinite
		case math.Abs(ms) > maxTimestampMillis:
			return ReasonOutOfRange
		}
		return ""
	}

	s, ok := asString(value)
	if !ok {
		return ReasonTypeMismatch
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ReasonParseFailure
	}
	for _, layout := range v.layouts {
		if validation.Date(layout).Validate(s) == nil {
			return ""
		}
	}
	return ReasonParseFailure
}

// DateRule validates that a string value matches the given date layout.
// Use [Date] to create one, then chain [DateRule.Min] and [DateRule.Max] to
// bound the accepted range.
type DateRule struct {
	validation.DateRule
	layout   string
	min, max time.Time
}

// Date creates a date validation rule with the given layout.
func Date(layout string) *DateRule {
	return &DateRule{
		DateRule: validation.Date(layout),
		layout:   layout,
	}
}

// Min rejects dates before t.
func (r *DateRule) Min(t time.Time) *DateRule {
	r.min = t
	r.DateRule = r.DateRule.Min(t)
	return r
}

// Max rejects dates after t.
func (r *DateRule) Max(t time.Time) *DateRule {
	r.max = t
	r.DateRule = r.DateRule.Max(t)
	return r
}

// Describe implements [Rule] by setting the format and date range on the schema.
func (r *DateRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = r.layout
	if !r.min.IsZero() {
		appendDescription(ref, "not before "+r.min.Format(r.layout))
	}
	if !r.max.IsZero() {
		appendDescription(ref, "not after "+r.max.Format(r.layout))
	}
	return nil
}

type timestampRule struct{}

// Timestamp accepts anything [Validator.ValidateDate] accepts with the
// default layouts. Empty strings and nil pointers are skipped.
var Timestamp Rule = timestampRule{}

func (timestampRule) Validate(value any) error {
	if _, isNil := validation.Indirect(value); isNil {
		return nil
	}
	if s, ok := asString(value); ok && s == "" {
		return nil
	}
	if quiet.checkDate(value) != "" {
		return errNotDate
	}
	return nil
}

func (timestampRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Format = "date-time"
	appendDescription(ref, "RFC 3339 timestamp or YYYY-MM-DD date")
	return nil
}
