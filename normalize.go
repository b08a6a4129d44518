package soilcheck

import (
	"context"
	"reflect"
)

// Normalizer is implemented by types that clean themselves up after
// decoding. [UnmarshalAndValidate] and [DecodeAndValidate] call Normalize on
// the top-level value first, then depth-first on every nested struct, slice
// element, pointer and map value that implements it.
type Normalizer interface {
	Normalize()
}

// ContextNormalizer is like Normalizer but receives a context.
type ContextNormalizer interface {
	Normalize(context.Context)
}

func normalizeRecursive(ctx context.Context, a any) {
	if a == nil {
		return
	}
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return
	}
	callNormalize(ctx, a)
	if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
		walkNormalize(ctx, rv.Elem())
	}
}

func callNormalize(ctx context.Context, v any) {
	switch n := v.(type) {
	case ContextNormalizer:
		n.Normalize(ctx)
	case Normalizer:
		n.Normalize()
	}
}

// walkNormalize visits the fields of an addressable struct.
func walkNormalize(ctx context.Context, rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		normalizeValue(ctx, rv.Field(i))
	}
}

func normalizeValue(ctx context.Context, v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() {
			callNormalize(ctx, v.Addr().Interface())
			walkNormalize(ctx, v)
		}
	case reflect.Ptr:
		if !v.IsNil() {
			callNormalize(ctx, v.Interface())
			if v.Elem().Kind() == reflect.Struct {
				walkNormalize(ctx, v.Elem())
			}
		}
	case reflect.Slice, reflect.Array:
		for j := 0; j < v.Len(); j++ {
			normalizeValue(ctx, v.Index(j))
		}
	case reflect.Map:
		// Map values aren't addressable; copy, normalize, put back.
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			if val.Kind() != reflect.Struct {
				continue
			}
			cp := reflect.New(val.Type())
			cp.Elem().Set(val)
			callNormalize(ctx, cp.Interface())
			walkNormalize(ctx, cp.Elem())
			v.SetMapIndex(key, cp.Elem())
		}
	}
}
