package soilcheck

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// NewSchemaRefForValue generates an OpenAPI schema for the given value,
// applying the Describe side of the rules of every type that implements
// [Ruler], [ContextRuler] or [ValueRuler].
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(describeSchema))
	return g.NewSchemaRefForValue(value, nil)
}

// describeSchema is the openapi3gen customizer. It runs once per generated
// type, after the type's properties are built.
func describeSchema(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	if t.Kind() != reflect.Struct {
		return describeValueRuler(t, name, schema)
	}
	inst := reflect.New(t)
	var fields []*FieldRules
	switch r := inst.Interface().(type) {
	case Ruler:
		fields = r.Rules()
	case ContextRuler:
		fields = r.Rules(context.Background())
	default:
		return nil
	}

	// openapi3gen flattens embedded structs into this schema, so their rules
	// describe it too.
	fields = withEmbeddedRules(inst.Elem(), fields)
	if err := tagFields(fields, inst.Elem()); err != nil {
		return err
	}
	for key, prop := range schema.Properties {
		for _, f := range fields {
			if f.tag != key {
				continue
			}
			for _, rule := range f.rules {
				if err := rule.Describe(key, schema, prop); err != nil {
					return fmt.Errorf("describe %s.%s: %w", t.Name(), key, err)
				}
			}
		}
	}
	return nil
}

// tagFields resolves each FieldRules' pointer to the JSON name of its field.
func tagFields(fields []*FieldRules, structVal reflect.Value) error {
	for i, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			return fmt.Errorf("rule target for field index %d must be a pointer, got %s", i, fv.Kind())
		}
		sf := findStructField(structVal, fv)
		if sf == nil {
			return fmt.Errorf("rule target for field index %d not found in struct %s", i, structVal.Type())
		}
		fr.tag = strings.Split(sf.Tag.Get("json"), ",")[0]
		if fr.tag == "" {
			fr.tag = sf.Name
		}
	}
	return nil
}

// describeValueRuler applies the rules of a non-struct type such as
// type Unit string to its own schema.
func describeValueRuler(t reflect.Type, name string, schema *openapi3.Schema) error {
	vr, ok := reflect.New(t).Interface().(ValueRuler)
	if !ok {
		return nil
	}
	ref := &openapi3.SchemaRef{Value: schema}
	for _, rule := range vr.ValueRules() {
		if err := rule.Describe(name, schema, ref); err != nil {
			return err
		}
	}
	return nil
}
