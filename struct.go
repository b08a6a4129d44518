package soilcheck

import (
	"reflect"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// findStructField returns the field of structVal that fieldPtr points at.
// structVal must be addressable. Embedded structs are searched too.
func findStructField(structVal, fieldPtr reflect.Value) *reflect.StructField {
	if fieldPtr.Kind() != reflect.Ptr || fieldPtr.IsNil() {
		return nil
	}
	addr := fieldPtr.Pointer()
	target := fieldPtr.Elem().Type()
	for i := 0; i < structVal.NumField(); i++ {
		sf := structVal.Type().Field(i)
		fv := structVal.Field(i)
		// The first field shares the struct's address, so the type must
		// match as well.
		if fv.UnsafeAddr() == addr && sf.Type == target {
			return &sf
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			if inner := findStructField(fv, fieldPtr); inner != nil {
				return inner
			}
		}
	}
	return nil
}
