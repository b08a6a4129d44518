package soilcheck

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const fnValidateAPIResponse = "ValidateAPIResponse"

// ValidateAPIResponse reports whether response is an object that has every
// name in requiredFields as a key. Presence is key existence: a key holding
// null, false or 0 counts. With no required fields any object passes.
//
// Objects are maps with string keys, structs (keyed by their JSON field
// names), pointers to either, and raw JSON objects as []byte or
// json.RawMessage. Nil, scalars, slices and arrays are rejected.
func (v *Validator) ValidateAPIResponse(response any, requiredFields ...string) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v.recovered(fnValidateAPIResponse, p, response)
			ok = false
		}
	}()

	keys, isObject := objectKeys(response)
	if !isObject {
		v.reject(fnValidateAPIResponse, ReasonShapeMismatch, slog.String("type", fmt.Sprintf("%T", response)))
		return false
	}
	if missing := missingKeys(keys, requiredFields); len(missing) > 0 {
		v.reject(fnValidateAPIResponse, ReasonMissingFields, slog.Any("missing", missing))
		return false
	}
	return true
}

// objectKeys returns the key set of an object-like value.
func objectKeys(value any) (map[string]struct{}, bool) {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil, false
	}
	switch raw := value.(type) {
	case json.RawMessage:
		return jsonObjectKeys(raw)
	case []byte:
		return jsonObjectKeys(raw)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keys := make(map[string]struct{}, rv.Len())
		for _, k := range rv.MapKeys() {
			keys[k.String()] = struct{}{}
		}
		return keys, true
	case reflect.Struct:
		// Struct keys are whatever the struct puts on the wire.
		b, err := json.Marshal(value)
		if err != nil {
			return nil, false
		}
		return jsonObjectKeys(b)
	}
	return nil, false
}

func jsonObjectKeys(b []byte) (map[string]struct{}, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return nil, false
	}
	keys := make(map[string]struct{}, len(m))
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys, true
}

func missingKeys(keys map[string]struct{}, required []string) []string {
	var missing []string
	for _, f := range required {
		if _, ok := keys[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// RequiredKeys ensures that a map, struct or raw JSON object has all of the
// given keys. Nil values are skipped.
func RequiredKeys(keys ...string) Rule {
	return &requiredKeysRule{keys}
}

type requiredKeysRule struct {
	keys []string
}

func (r *requiredKeysRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, fmt.Sprintf("keys (%s) required", strings.Join(r.keys, ",")))
	return nil
}

func (r *requiredKeysRule) Validate(value any) error {
	if _, isNil := validation.Indirect(value); isNil {
		return nil
	}
	keys, ok := objectKeys(value)
	if !ok {
		return errNotObject
	}
	if missing := missingKeys(keys, r.keys); len(missing) > 0 {
		return errMissingKeys.SetParams(map[string]any{"keys": strings.Join(missing, ", ")})
	}
	return nil
}
