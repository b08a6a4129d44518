package transform

import (
	"reflect"
	"strings"
)

// StructTrimSpace runs [strings.TrimSpace] on all string fields in the struct
// recursively, including nested structs, pointer fields, slices and map values.
func StructTrimSpace(v any) {
	StructStringFunc(v, strings.TrimSpace)
}

// StructStringFunc applies f to every settable string reachable from the
// struct v points to. Interface fields are left alone.
func StructStringFunc(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	apply(rv.Elem(), f)
}

func apply(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				apply(v.Field(i), f)
			}
		}
	case reflect.Pointer:
		if !v.IsNil() {
			apply(v.Elem(), f)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			apply(v.Index(i), f)
		}
	case reflect.Map:
		if v.IsNil() {
			return
		}
		// Map values aren't addressable; copy, transform, put back.
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			if val.Kind() != reflect.String && val.Kind() != reflect.Struct {
				continue
			}
			cp := reflect.New(val.Type()).Elem()
			cp.Set(val)
			apply(cp, f)
			v.SetMapIndex(key, cp)
		}
	}
}
