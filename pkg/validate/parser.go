package validate

import (
	"maps"
	"slices"
	"strings"
)

// customLabel names inline predicates that were given no label.
const customLabel = "custom"

// classify resolves a token against the builtin tables and reg.
//
// Resolution order for a rule name is: named predicate, builtin tag,
// registered regex, registered type. A name that matches none of them is an
// *UnknownRuleError.
func classify(tok Token, reg *Registry) (ParsedRule, error) {
	if tok.Func != nil {
		label := tok.Label
		if label == "" {
			label = customLabel
		}
		fn := tok.Func
		return ParsedRule{
			Kind:  KindFunc,
			Name:  label,
			Param: tok.Param,
			Label: label,
			fn: func(c call) bool {
				return fn(c.value, c.param, c.data, c.field)
			},
		}, nil
	}

	if tok.Key != "" {
		return resolveRule(reg.resolveAlias(tok.Key), tok.Param, false, reg)
	}

	rule := tok.Rule
	if i := strings.IndexByte(rule, ':'); i > 0 {
		return resolveRule(reg.resolveAlias(rule[:i]), rule[i+1:], false, reg)
	}
	return resolveRule(rule, "", true, reg)
}

// resolveRule looks name up in order. Bare type rules receive their own name
// as the parameter.
func resolveRule(name string, param any, bare bool, reg *Registry) (ParsedRule, error) {
	parsed := ParsedRule{Name: name, Param: param, Label: name}

	if fn, ok := namedPredicates[name]; ok {
		parsed.Kind, parsed.fn = KindNamed, fn
		return parsed, nil
	}
	if fn, ok := builtinTags[name]; ok {
		parsed.Kind, parsed.fn = KindBuiltin, fn
		return parsed, nil
	}

	re, ok, err := reg.regex(name)
	if err != nil {
		return ParsedRule{}, err
	}
	if ok {
		parsed.Kind = KindRegex
		parsed.fn = func(c call) bool {
			return re.MatchString(toString(c.value))
		}
		return parsed, nil
	}

	if fn, ok := reg.types[name]; ok {
		if bare {
			parsed.Param = name
		}
		parsed.Kind = KindType
		parsed.fn = func(c call) bool {
			return fn(c.value, c.param, c.data, c.field)
		}
		return parsed, nil
	}

	return ParsedRule{}, &UnknownRuleError{
		Rule:       name,
		Suggestion: suggestRule(name, knownRules(reg)),
	}
}

// knownRules lists every resolvable rule name.
func knownRules(reg *Registry) []string {
	names := slices.Collect(maps.Keys(namedPredicates))
	names = slices.AppendSeq(names, maps.Keys(builtinTags))
	return append(names, reg.names()...)
}

// blank reports whether a token carries no rule at all, as in "require||number".
func blank(tok Token) bool {
	return tok.Func == nil && tok.Key == "" && strings.TrimSpace(tok.Rule) == ""
}
