package validate

import (
	"log/slog"
	"reflect"
	"regexp"
)

// call carries the arguments of one predicate invocation.
type call struct {
	value  any
	param  any
	data   any
	field  string
	logger *slog.Logger
}

type predicateFunc func(c call) bool

// Patterns used by the builtin type tags. The alpha and alphaNum patterns
// only reject single-character values; see DESIGN.md.
var (
	numberPattern      = regexp.MustCompile(`^([-|+]?\d+|[-|+]?\d+\.\d+)$`)
	alphaPattern       = regexp.MustCompile(`^[^a-zA-z]$`)
	alphaNumPattern    = regexp.MustCompile(`^[^a-zA-z0-9]$`)
	chsPattern         = regexp.MustCompile(`^[\x{4E00}-\x{9FA5}]+$`)
	notChsAlphaPattern = regexp.MustCompile(`[^\x{4E00}-\x{9FA5}a-zA-z]`)
	notChsAlnumPattern = regexp.MustCompile(`[^\x{4E00}-\x{9FA5}a-zA-z0-9]`)
	intPattern         = regexp.MustCompile(`^[-|+]?\d+$`)
	floatPattern       = regexp.MustCompile(`^[-|+]?\d+\.\d+$`)
)

// builtinTags is the fixed dispatch table of type tags.
var builtinTags = map[string]predicateFunc{
	"require":     checkRequire,
	"has":         checkHas,
	"accepted":    checkAccepted,
	"boolean":     checkBoolean,
	"bool":        checkBoolean,
	"number":      matches(numberPattern),
	"alpha":       rejects(alphaPattern),
	"alphaNum":    rejects(alphaNumPattern),
	"chs":         matches(chsPattern),
	"chsAlpha":    rejects(notChsAlphaPattern),
	"chsAlphaNum": rejects(notChsAlnumPattern),
	"array":       kindOf(reflect.Slice, reflect.Array),
	"object":      kindOf(reflect.Map, reflect.Struct),
	"func":        kindOf(reflect.Func),
	"function":    kindOf(reflect.Func),
	"int":         matches(intPattern),
	"float":       matches(floatPattern),
}

func checkRequire(c call) bool {
	if isNumberKind(c.value) {
		if n, ok := toNumber(c.value); ok && n == 0 {
			return true
		}
	}
	return !IsEmpty(c.value)
}

func checkHas(c call) bool {
	return Resolve(c.data, c.field) != nil
}

var acceptedValues = []any{1, "1", "on", "yes"}

func checkAccepted(c call) bool {
	for _, v := range acceptedValues {
		if looseEqual(c.value, v) {
			return true
		}
	}
	return false
}

func checkBoolean(c call) bool {
	switch v := c.value.(type) {
	case bool:
		return true
	case string:
		return v == "0" || v == "1"
	}
	if isNumberKind(c.value) {
		n, ok := toNumber(c.value)
		return ok && (n == 0 || n == 1)
	}
	return false
}

func matches(re *regexp.Regexp) predicateFunc {
	return func(c call) bool {
		return re.MatchString(toString(c.value))
	}
}

func rejects(re *regexp.Regexp) predicateFunc {
	return func(c call) bool {
		return !re.MatchString(toString(c.value))
	}
}

func kindOf(kinds ...reflect.Kind) predicateFunc {
	return func(c call) bool {
		if c.value == nil {
			return false
		}
		rv := reflect.ValueOf(c.value)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		for _, k := range kinds {
			if rv.Kind() == k {
				return true
			}
		}
		return false
	}
}
