package validate

import "strings"

// Predicate is a custom check. It receives the field value, the rule
// parameter, the whole data value and the field key, and reports whether the
// value passes.
type Predicate func(value, param, data any, field string) bool

// FieldCheck validates a whole field on its own. A non-nil error fails the
// field and its text becomes the field's message.
type FieldCheck func(value, data any) error

// Token is one atomic rule in a field's rule sequence.
type Token struct {
	// Key is set for keyed tokens: a rule name or operator alias whose
	// parameter is carried in Param unchanged.
	Key string

	// Rule is a bare ("require") or parameterized ("max:10") rule string.
	Rule string

	// Param is the parameter of a keyed token.
	Param any

	// Func is an inline predicate.
	Func Predicate

	// Label names an inline predicate in messages. Defaults to "custom".
	Label string
}

// T returns a token for a bare or parameterized rule string.
func T(rule string) Token {
	return Token{Rule: rule}
}

// Op returns a keyed token, such as Op(">=", "other.field") or
// Op("in", []string{"a", "b"}).
func Op(key string, param any) Token {
	return Token{Key: key, Param: param}
}

// Fn returns a token that runs an inline predicate, reported under label.
func Fn(label string, fn Predicate) Token {
	return Token{Func: fn, Label: label}
}

// Spec is the complete rule specification for one field: either a sequence
// of tokens or a single FieldCheck.
type Spec struct {
	tokens []Token
	check  FieldCheck
}

// Rules parses a pipe-delimited rule string such as "require|number|max:10".
func Rules(s string) Spec {
	parts := strings.Split(s, "|")
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		tokens = append(tokens, T(part))
	}
	return Spec{tokens: tokens}
}

// Tokens builds a spec from an ordered token sequence.
func Tokens(tokens ...Token) Spec {
	return Spec{tokens: tokens}
}

// Custom builds a spec that delegates the whole field to fn.
func Custom(fn FieldCheck) Spec {
	return Spec{check: fn}
}

// TokenList returns the spec's tokens. It is nil for FieldCheck specs.
func (s Spec) TokenList() []Token {
	return s.tokens
}

// IsCheck reports whether the spec is a single FieldCheck.
func (s Spec) IsCheck() bool {
	return s.check != nil
}

// FieldRule pairs a field key with its rule spec.
type FieldRule struct {
	Field string
	Spec  Spec
}

// Field returns a FieldRule.
func Field(field string, spec Spec) FieldRule {
	return FieldRule{Field: field, Spec: spec}
}

// RuleSet is an ordered list of field rules. Order determines the order of
// evaluation and of the error report.
type RuleSet []FieldRule

// Set replaces the rule for field, or appends it when absent.
func (rs RuleSet) Set(field string, spec Spec) RuleSet {
	for i := range rs {
		if rs[i].Field == field {
			rs[i].Spec = spec
			return rs
		}
	}
	return append(rs, FieldRule{Field: field, Spec: spec})
}

// Fields returns the field keys in order.
func (rs RuleSet) Fields() []string {
	out := make([]string, len(rs))
	for i, fr := range rs {
		out[i] = fr.Field
	}
	return out
}

// RuleKind identifies how a parsed rule is executed.
type RuleKind int

const (
	// KindBuiltin is a fixed type tag such as require, number or array.
	KindBuiltin RuleKind = iota
	// KindNamed is a parameterized predicate such as egt, in, length or ip.
	KindNamed
	// KindRegex is a registered regular expression.
	KindRegex
	// KindType is a registered custom predicate.
	KindType
	// KindFunc is an inline predicate.
	KindFunc
)

// String returns the kind name.
func (k RuleKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindNamed:
		return "named"
	case KindRegex:
		return "regex"
	case KindType:
		return "type"
	case KindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// ParsedRule is a token after classification.
type ParsedRule struct {
	Kind  RuleKind
	Name  string
	Param any
	// Label is shown in messages and used for message override lookup.
	Label string

	fn predicateFunc
}
