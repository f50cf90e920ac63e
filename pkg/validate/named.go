package validate

import (
	"math"
	"regexp"
	"strings"
)

// namedPredicates are the parameterized predicates. Comparison operators
// reach them through registry aliases.
var namedPredicates = map[string]predicateFunc{
	"egt":     checkEgt,
	"gt":      checkGt,
	"eq":      checkEq,
	"lt":      checkLt,
	"lte":     checkLte,
	"unequal": checkUnequal,
	"in":      checkIn,
	"notIn":   checkNotIn,
	"length":  checkLength,
	"between": checkBetween,
	"max":     checkMax,
	"min":     checkMin,
	"ip":      checkIP,
	"ipv4":    checkIPv4,
	"ipv6":    checkIPv6,
}

// checkLength compares the value's length against "a,b" (inclusive range)
// or a single number (exact match).
func checkLength(c call) bool {
	n := lengthOf(c.value, c.logger)
	if s, ok := c.param.(string); ok && strings.Index(s, ",") > 0 {
		lo, hi, _ := splitRange(s)
		return n >= lo && n <= hi
	}
	want, ok := toNumber(c.param)
	return ok && n == want
}

func checkBetween(c call) bool {
	lo, hi, ok := splitRange(c.param)
	if !ok {
		c.logger.Warn("between rule requires a \"min,max\" parameter",
			"field", c.field, "param", toString(c.param))
		return false
	}
	n := lengthOf(c.value, c.logger)
	return n >= lo && n <= hi
}

func checkMax(c call) bool {
	return bounded(c, "max", func(n, bound float64) bool { return n <= bound })
}

func checkMin(c call) bool {
	return bounded(c, "min", func(n, bound float64) bool { return n >= bound })
}

// bounded measures numeric values directly and everything else by length.
func bounded(c call, rule string, test func(n, bound float64) bool) bool {
	bound, ok := strToNumber(c.param)
	if !ok || math.IsNaN(bound) {
		c.logger.Warn("rule requires a numeric parameter",
			"rule", rule, "field", c.field, "param", toString(c.param))
		return false
	}
	n, ok := strToNumber(c.value)
	if !ok {
		n = lengthOf(c.value, c.logger)
	}
	return test(n, bound)
}

var (
	ipv4Octet   = `(\d{1,2}|1\d\d|2[0-4]\d|25[0-5])`
	ipv4Pattern = regexp.MustCompile(`^` + ipv4Octet + `\.` + ipv4Octet + `\.` + ipv4Octet + `\.` + ipv4Octet + `$`)

	ipv6Compressed = regexp.MustCompile(`(?i)^::$|^(::)?([0-9a-f]{1,4}(:|::))*[0-9a-f]{1,4}(:|::)?$`)
	ipv6Full       = regexp.MustCompile(`(?i)^([0-9a-f]{1,4}:){7}[0-9a-f]{1,4}$`)
)

func checkIP(c call) bool {
	return checkIPv4(c) || checkIPv6(c)
}

func checkIPv4(c call) bool {
	return ipv4Pattern.MatchString(toString(c.value))
}

// checkIPv6 accepts the full eight-group form, or a "::" compressed form
// with fewer than eight colons.
func checkIPv6(c call) bool {
	s := toString(c.value)
	if strings.Contains(s, ":") && strings.Count(s, ":") < 8 && strings.Contains(s, "::") {
		return strings.Count(s, "::") == 1 && ipv6Compressed.MatchString(s)
	}
	return ipv6Full.MatchString(s)
}
