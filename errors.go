package soilcheck

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationErrors is a map of field names to their validation errors.
// It is an alias for [validation.Errors] from ozzo-validation and marshals to
// a JSON object keyed by field name.
type ValidationErrors = validation.Errors

// FieldErrors flattens nested [ValidationErrors] into a map keyed by dotted
// JSON path, e.g. "readings.3.lat". It returns nil when err does not wrap
// ValidationErrors.
func FieldErrors(err error) map[string]string {
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := map[string]string{}
	flatten("", errs, out)
	return out
}

func flatten(prefix string, errs ValidationErrors, out map[string]string) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		var nested ValidationErrors
		if errors.As(err, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = err.Error()
	}
}

// Reason classifies why a predicate rejected its input. Reasons only appear
// in diagnostics; callers of the predicates see a plain false or empty result.
type Reason string

const (
	ReasonTypeMismatch     Reason = "type_mismatch"
	ReasonNotFinite        Reason = "not_finite"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonPrecision        Reason = "precision"
	ReasonShapeMismatch    Reason = "shape_mismatch"
	ReasonParseFailure     Reason = "parse_failure"
	ReasonUnsafeScheme     Reason = "unsafe_scheme"
	ReasonDomainNotAllowed Reason = "domain_not_allowed"
	ReasonMissingFields    Reason = "missing_fields"
	ReasonMissingEnv       Reason = "missing_env"
	ReasonPanic            Reason = "panic"
)

// ozzo errors returned by the domain rules, one per rejection reason.
var (
	errNotNumber   = validation.NewError("validation_not_number", "must be a number")
	errNotFinite   = validation.NewError("validation_not_finite", "must be a finite number")
	errPrecision   = validation.NewError("validation_precision", "must have at most two decimal places")
	errNotString   = validation.NewError("validation_not_string", "must be a string")
	errNotDate     = validation.NewError("validation_not_date", "must be a valid date")
	errUnsafeURL   = validation.NewError("validation_unsafe_url", "must be an http or https URL")
	errURLDomain   = validation.NewError("validation_url_domain", "must point to an allowed domain")
	errNotObject   = validation.NewError("validation_not_object", "must be an object")
	errMissingKeys = validation.NewError("validation_missing_keys", "is missing required keys: {{.keys}}")
	errOutOfRange  = validation.NewError("validation_out_of_range", "must be between {{.min}} and {{.max}}")
)
