package tableview

import (
	"math"
	"reflect"
	"strings"
)

// Row is one record of a row collection. Nested records are Row or
// map[string]any values.
type Row map[string]any

// Resolve walks a dotted path through nested rows. The second result is
// false when a segment is missing or a container along the way is nil or not
// a mapping. A present key holding nil resolves to (nil, true).
func Resolve(path string, row Row) (any, bool) {
	var cur any = row
	for _, seg := range strings.Split(path, ".") {
		var m map[string]any
		switch c := cur.(type) {
		case Row:
			m = c
		case map[string]any:
			m = c
		default:
			return nil, false
		}
		if m == nil {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// isNull reports whether a resolved value counts as "no value": missing,
// nil, a typed nil pointer, map, slice or func, or a floating-point NaN.
func isNull(v any, ok bool) bool {
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
