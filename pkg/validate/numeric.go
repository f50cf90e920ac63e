package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// isNumberKind reports whether v is a Go number or a json.Number.
func isNumberKind(v any) bool {
	switch v.(type) {
	case json.Number:
		return true
	case nil:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// toNumber converts numbers and numeric strings to float64.
// Blank strings convert to 0. Anything else reports false.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case nil:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	case reflect.String:
		return toNumber(rv.String())
	}
	return 0, false
}

// toString renders v the way rule patterns expect to see it.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}

// typeName returns a short lower-case name for the dynamic type of v.
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case json.Number:
		return "number"
	}
	switch kind := reflect.ValueOf(v).Kind(); kind {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Func:
		return "function"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	default:
		if isNumberKind(v) {
			return "number"
		}
		return kind.String()
	}
}

// lengthOf measures v: member count for collections, rune count for
// strings, the value itself for numbers. Other types log a warning and
// measure 0.
func lengthOf(v any, logger *slog.Logger) float64 {
	if isNumberKind(v) {
		n, _ := toNumber(v)
		return n
	}
	if s, ok := v.(string); ok {
		return float64(utf8.RuneCountInString(s))
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(rv.Len())
	case reflect.String:
		return float64(utf8.RuneCountInString(rv.String()))
	case reflect.Struct:
		count := 0
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).IsExported() {
				count++
			}
		}
		return float64(count)
	}

	logger.Warn("length of unsupported data type", "type", typeName(v))
	return 0
}

// strToNumber converts a rule bound or value to a number. Only strings and
// numbers qualify.
func strToNumber(v any) (float64, bool) {
	switch typeName(v) {
	case "string", "number":
		return toNumber(v)
	}
	return 0, false
}

// splitRange parses an "a,b" rule parameter.
func splitRange(param any) (lo, hi float64, ok bool) {
	s, isStr := param.(string)
	if !isStr {
		return 0, 0, false
	}
	first, rest, found := strings.Cut(s, ",")
	if !found || first == "" {
		return 0, 0, false
	}
	second, _, _ := strings.Cut(rest, ",")

	lo, okLo := toNumber(first)
	hi, okHi := toNumber(second)
	if !okLo || !okHi {
		return math.NaN(), math.NaN(), true
	}
	return lo, hi, true
}
