package soilcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate is the single entry point for struct validation.
// If value implements Ruler, validates struct fields via Rules().
// If value implements ValueRuler, applies its rules to the value directly.
// Slices and maps of Ruler structs are validated element by element.
func Validate(value any) error {
	return validateCore(context.Background(), value)
}

// ValidateCtx is like Validate but passes a context to ContextRuler.Rules().
func ValidateCtx(ctx context.Context, value any) error {
	return validateCore(ctx, value)
}

// ValidateStruct validates a struct with explicit field rules.
// Prefer Validate for types implementing Ruler.
func ValidateStruct(structPtr any, fields []*FieldRules) error {
	return validation.ValidateStruct(structPtr, convertFieldRules(context.Background(), fields)...)
}

// UnmarshalAndValidate decodes JSON from b into dst, normalizes it, then
// validates. See [Normalizer].
func UnmarshalAndValidate(b []byte, dst any) error {
	return UnmarshalAndValidateCtx(context.Background(), b, dst)
}

// UnmarshalAndValidateCtx is like UnmarshalAndValidate but passes a context to
// ContextNormalizer.Normalize and ContextRuler.Rules.
func UnmarshalAndValidateCtx(ctx context.Context, b []byte, dst any) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

// DecodeAndValidate reads JSON from r into dst using a streaming decoder,
// then normalizes and validates. Use this instead of [UnmarshalAndValidate]
// when reading directly from an HTTP request body.
func DecodeAndValidate(r io.Reader, dst any) error {
	return DecodeAndValidateContext(context.Background(), r, dst)
}

// DecodeAndValidateContext is like DecodeAndValidate but passes a context to
// ContextNormalizer.Normalize and ContextRuler.Rules.
func DecodeAndValidateContext(ctx context.Context, r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return err
	}
	normalizeRecursive(ctx, dst)
	return ValidateCtx(ctx, dst)
}

func validateCore(ctx context.Context, value any) error {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}
	switch r := value.(type) {
	case Ruler:
		return validation.ValidateStruct(value, convertFieldRules(ctx, r.Rules())...)
	case ContextRuler:
		return validation.ValidateStruct(value, convertFieldRules(ctx, r.Rules(ctx))...)
	case ValueRuler:
		return validateValueRules(value, r.ValueRules())
	}

	rv = reflect.Indirect(rv)

	switch rv.Kind() {
	case reflect.Struct:
		// ozzo hands struct fields over by value; the rules live on *T.
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		switch r := ptr.Interface().(type) {
		case Ruler:
			return validation.ValidateStruct(r, convertFieldRules(ctx, r.Rules())...)
		case ContextRuler:
			return validation.ValidateStruct(r, convertFieldRules(ctx, r.Rules(ctx))...)
		}
	case reflect.Slice, reflect.Array:
		if autoValidated(rv.Type().Elem()) {
			return validateSlice(ctx, rv)
		}
	case reflect.Map:
		if autoValidated(rv.Type().Elem()) {
			return validateMap(ctx, rv)
		}
	}
	return nil
}

func validateValueRules(value any, rules []Rule) error {
	for _, rule := range rules {
		if err := rule.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// autoValidated reports whether collection elements of type t carry rules,
// directly or through nested collections.
func autoValidated(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		inst := reflect.New(t).Interface()
		_, ok := inst.(Ruler)
		_, okCtx := inst.(ContextRuler)
		return ok || okCtx
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
		return autoValidated(t.Elem())
	}
	return false
}

func validateElement(ctx context.Context, v reflect.Value) error {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return validateCore(ctx, v.Addr().Interface())
	}
	return validateCore(ctx, v.Interface())
}

func validateSlice(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	for i := 0; i < rv.Len(); i++ {
		if err := validateElement(ctx, rv.Index(i)); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMap(ctx context.Context, rv reflect.Value) error {
	errs := validation.Errors{}
	for _, key := range rv.MapKeys() {
		if err := validateElement(ctx, rv.MapIndex(key)); err != nil {
			errs[fmt.Sprint(key.Interface())] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// rulerBridge is an ozzo validation.Rule appended to every field so that
// ozzo recurses into Ruler structs, []Ruler slices and map[K]Ruler maps.
type rulerBridge struct {
	ctx context.Context
}

func (b *rulerBridge) Validate(value any) error {
	if value == nil {
		return nil
	}
	return validateCore(b.ctx, value)
}

// convertFieldRules translates FieldRules into ozzo's FieldRules.
func convertFieldRules(ctx context.Context, fields []*FieldRules) []*validation.FieldRules {
	out := make([]*validation.FieldRules, len(fields))
	for i, fr := range fields {
		rules := append(convertRules(fr.rules...), &rulerBridge{ctx: ctx})
		out[i] = validation.Field(fr.fieldPtr, rules...)
	}
	return out
}

func convertRules(rules ...Rule) []validation.Rule {
	out := make([]validation.Rule, len(rules), len(rules)+1)
	for i := range rules {
		out[i] = rules[i]
	}
	return out
}

// By wraps a RuleFunc into a Rule documented by desc.
func By(f RuleFunc, desc string) Rule {
	return &inlineRule{validation.By(validation.RuleFunc(f)), desc}
}

type inlineRule struct {
	validation.Rule
	desc string
}

func (r *inlineRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref, r.desc)
	return nil
}

// appendDescription adds desc to the schema description, space separated.
func appendDescription(ref *openapi3.SchemaRef, desc string) {
	if ref.Value.Description != "" && !strings.HasSuffix(ref.Value.Description, " ") {
		ref.Value.Description += " "
	}
	ref.Value.Description += desc
}
