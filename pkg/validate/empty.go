package validate

import (
	"encoding/json"
	"reflect"
	"strings"
)

// IsEmpty reports whether v counts as blank for validation purposes.
//
// Empty values are: nil (including typed nils), strings that are blank after
// trimming, false, zero-length slices and arrays, maps with no keys, and
// numeric zero whose canonical text has no decimal point. json.Number("0.0")
// is therefore present while float64(0) and json.Number("0") are empty.
func IsEmpty(v any) bool {
	if isNil(v) {
		return true
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case json.Number:
		return isNumericZero(val)
	}

	if isNumberKind(v) {
		return isNumericZero(v)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// isNumericZero reports whether v is a number equal to integer zero written
// without a decimal point.
func isNumericZero(v any) bool {
	if !isNumberKind(v) {
		return false
	}
	n, ok := toNumber(v)
	if !ok || n != 0 {
		return false
	}
	return !strings.Contains(toString(v), ".")
}
