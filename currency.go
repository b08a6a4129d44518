package soilcheck

import (
	"log/slog"
	"math"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const fnValidateCurrencyAmount = "ValidateCurrencyAmount"

const (
	DefaultMinAmount = 0.0
	DefaultMaxAmount = 999999999.99
)

// ValidateCurrencyAmount is [Validator.ValidateCurrencyAmountRange] with
// [DefaultMinAmount] and [DefaultMaxAmount].
func (v *Validator) ValidateCurrencyAmount(amount any) bool {
	return v.ValidateCurrencyAmountRange(amount, DefaultMinAmount, DefaultMaxAmount)
}

// ValidateCurrencyAmountRange reports whether amount is a finite number in
// [lo, hi] with at most two decimal places.
//
// The decimal check is math.Round(amount*100)/100 == amount using exact
// float64 equality. Values that are exact to the cent in decimal but not in
// binary can fail it.
func (v *Validator) ValidateCurrencyAmountRange(amount any, lo, hi float64) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateCurrencyAmount, p, amount)
			ok = false
		}
	}()

	reason := checkAmount(amount, lo, hi)
	if reason != "" {
		v.reject(fnValidateCurrencyAmount, reason,
			slog.Any("amount", amount),
			slog.Float64("min", lo),
			slog.Float64("max", hi),
		)
		return false
	}
	return true
}

func checkAmount(amount any, lo, hi float64) Reason {
	f, reason := checkNumber(amount, lo, hi)
	if reason != "" {
		return reason
	}
	if math.Round(f*100)/100 != f {
		return ReasonPrecision
	}
	return ""
}

type currencyRule struct {
	min, max float64
}

// CurrencyAmount returns a rule requiring a finite amount in [lo, hi] with at
// most two decimal places. Nil pointers are skipped.
func CurrencyAmount(lo, hi float64) Rule {
	return currencyRule{min: lo, max: hi}
}

func (r currencyRule) Validate(value any) error {
	if _, isNil := validation.Indirect(value); isNil {
		return nil
	}
	switch checkAmount(value, r.min, r.max) {
	case "":
		return nil
	case ReasonTypeMismatch:
		return errNotNumber
	case ReasonNotFinite:
		return errNotFinite
	case ReasonPrecision:
		return errPrecision
	default:
		return errOutOfRange.SetParams(map[string]any{"min": r.min, "max": r.max})
	}
}

func (r currencyRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	lo, hi, step := r.min, r.max, 0.01
	ref.Value.Min = &lo
	ref.Value.Max = &hi
	ref.Value.MultipleOf = &step
	return nil
}
