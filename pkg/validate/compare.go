package validate

import (
	"reflect"
	"strings"
)

// looseNumber converts v for loose comparison. Booleans count as 1 and 0.
// Blank strings do not convert.
func looseNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		if strings.TrimSpace(val) == "" {
			return 0, false
		}
	}
	return toNumber(v)
}

// looseEqual compares two scalars loosely: numerically when both sides
// convert to numbers, by text otherwise. A number never equals a
// non-numeric string. nil only equals nil.
func looseEqual(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	na, okA := looseNumber(a)
	nb, okB := looseNumber(b)
	if okA && okB {
		return na == nb
	}
	if isNumberKind(a) || isNumberKind(b) {
		return false
	}
	return toString(a) == toString(b)
}

// compareLoose orders a against b. ok is false when the operands are not
// comparable, which makes every ordering predicate fail.
func compareLoose(a, b any) (cmp int, ok bool) {
	if isNil(a) || isNil(b) {
		return 0, false
	}
	sa, aIsStr := a.(string)
	sb, bIsStr := b.(string)
	if aIsStr && bIsStr {
		na, okA := looseNumber(sa)
		nb, okB := looseNumber(sb)
		if !okA || !okB {
			return strings.Compare(sa, sb), true
		}
		return compareFloat(na, nb), true
	}
	na, okA := looseNumber(a)
	nb, okB := looseNumber(b)
	if !okA || !okB {
		return 0, false
	}
	return compareFloat(na, nb), true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// operand returns the right-hand side of a comparison. String parameters
// name another field in the data; any other parameter is used as a literal.
func operand(c call) any {
	if path, ok := c.param.(string); ok {
		return Resolve(c.data, path)
	}
	return c.param
}

func ordered(test func(cmp int) bool) predicateFunc {
	return func(c call) bool {
		cmp, ok := compareLoose(c.value, operand(c))
		return ok && test(cmp)
	}
}

var (
	checkEgt = ordered(func(cmp int) bool { return cmp >= 0 })
	checkGt  = ordered(func(cmp int) bool { return cmp > 0 })
	checkLt  = ordered(func(cmp int) bool { return cmp < 0 })
	checkLte = ordered(func(cmp int) bool { return cmp <= 0 })
)

func checkEq(c call) bool {
	return looseEqual(c.value, operand(c))
}

func checkUnequal(c call) bool {
	return !looseEqual(c.value, operand(c))
}

// members expands an in/notIn parameter: a slice or array, or a
// comma-separated string.
func members(param any) []any {
	switch p := param.(type) {
	case nil:
		return nil
	case string:
		parts := strings.Split(p, ",")
		out := make([]any, len(parts))
		for i, s := range parts {
			out[i] = s
		}
		return out
	case []any:
		return p
	}

	rv := reflect.ValueOf(param)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{param}
}

func checkIn(c call) bool {
	for _, m := range members(c.param) {
		if looseEqual(c.value, m) {
			return true
		}
	}
	return false
}

func checkNotIn(c call) bool {
	return !checkIn(c)
}
