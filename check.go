package soilcheck

import (
	"context"
	"reflect"
	"strings"
)

// MissingRules returns the JSON names of exported struct fields that have no
// corresponding Field(...) in the Ruler's Rules(). Fields tagged json:"-" or
// validate:"-" are skipped, as are the names in exclude. Rules declared by an
// embedded Ruler count as coverage for the fields it promotes.
//
// Use in tests to catch forgotten fields:
//
//	assert.Empty(t, soilcheck.MissingRules(&Reading{}))
func MissingRules(structPtr any, exclude ...string) []string {
	var fields []*FieldRules
	switch r := structPtr.(type) {
	case Ruler:
		fields = r.Rules()
	case ContextRuler:
		fields = r.Rules(context.Background())
	default:
		return nil
	}

	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	fields = withEmbeddedRules(structVal, fields)

	covered := map[string]bool{}
	for _, fr := range fields {
		if sf := findStructField(structVal, reflect.ValueOf(fr.fieldPtr)); sf != nil {
			covered[fieldKey(*sf)] = true
		}
	}
	excl := map[string]bool{}
	for _, e := range exclude {
		excl[e] = true
	}

	var missing []string
	collectUncovered(structVal.Type(), excl, covered, &missing)
	return missing
}

// withEmbeddedRules appends the rules of every embedded Ruler named in fields.
func withEmbeddedRules(structVal reflect.Value, fields []*FieldRules) []*FieldRules {
	out := append([]*FieldRules(nil), fields...)
	for _, fr := range fields {
		sf := findStructField(structVal, reflect.ValueOf(fr.fieldPtr))
		if sf == nil || !sf.Anonymous {
			continue
		}
		if r, ok := fr.fieldPtr.(Ruler); ok {
			out = append(out, withEmbeddedRules(structVal, r.Rules())...)
		}
	}
	return out
}

// fieldKey returns the json tag name if present, otherwise the Go field name.
func fieldKey(sf reflect.StructField) string {
	tag := strings.Split(sf.Tag.Get("json"), ",")[0]
	if tag != "" && tag != "-" {
		return tag
	}
	return sf.Name
}

func collectUncovered(t reflect.Type, excl, covered map[string]bool, missing *[]string) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collectUncovered(sf.Type, excl, covered, missing)
			continue
		}
		if !sf.IsExported() || sf.Tag.Get("json") == "-" || sf.Tag.Get("validate") == "-" {
			continue
		}
		key := fieldKey(sf)
		if excl[key] || excl[sf.Name] || covered[key] {
			continue
		}
		*missing = append(*missing, key)
	}
}
