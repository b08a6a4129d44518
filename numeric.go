package soilcheck

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// toFloat returns the value of a Go numeric or a json.Number. Pointers are
// followed. Strings, bools, nil and composites are not numbers.
func toFloat(value any) (float64, bool) {
	value, isNil := validation.Indirect(value)
	if isNil {
		return 0, false
	}
	if n, ok := value.(json.Number); ok {
		if !govalidator.IsFloat(string(n)) {
			return 0, false
		}
		f, err := n.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// asString returns the value of a string or named string kind. Pointers are
// followed. json.Number is a number, not a string.
func asString(value any) (string, bool) {
	value, isNil := validation.Indirect(value)
	if isNil {
		return "", false
	}
	if _, ok := value.(json.Number); ok {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// sequence returns the elements of a slice or array. Byte slices hold raw
// data and are not sequences.
func sequence(value any) ([]any, bool) {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// checkNumber is the shared numeric check behind the predicates and the
// numeric domain rules. It returns the number and an empty reason on success.
func checkNumber(value any, lo, hi float64) (float64, Reason) {
	f, ok := toFloat(value)
	if !ok {
		return 0, ReasonTypeMismatch
	}
	if !isFinite(f) {
		return f, ReasonNotFinite
	}
	if f < lo || f > hi {
		return f, ReasonOutOfRange
	}
	return f, ""
}
