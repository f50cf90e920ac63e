package validate

import (
	"maps"
	"regexp"
)

// Default regular expressions available to every Validator.
const (
	PatternMobile = `^[1][3,4,5,7,8][0-9]{9}$`
	PatternEmail  = `^[a-z0-9]+([._\\-]*[a-z0-9])*@([a-z0-9]+[-a-z0-9]*[a-z0-9]+.){1,63}[a-z0-9]+$`
)

// defaultAliases maps comparison operators to predicate names.
var defaultAliases = map[string]string{
	">=": "egt",
	">":  "gt",
	"=":  "eq",
	"<":  "lt",
	"<=": "lte",
	"!=": "unequal",
	"<>": "unequal",
}

// pattern is a named regular expression, compiled on first use.
type pattern struct {
	source   string
	compiled *regexp.Regexp
}

// Registry holds the named regular expressions, custom type predicates and
// operator aliases a Validator resolves rule names against.
type Registry struct {
	regexes map[string]*pattern
	types   map[string]Predicate
	aliases map[string]string
}

// NewRegistry returns a registry seeded with the default aliases and the
// mobile and email patterns.
func NewRegistry() *Registry {
	r := &Registry{
		regexes: make(map[string]*pattern),
		types:   make(map[string]Predicate),
		aliases: maps.Clone(defaultAliases),
	}
	r.SetRegex("mobile", PatternMobile)
	r.SetRegex("email", PatternEmail)
	return r
}

// SetRegex registers a pattern source under name, replacing any previous
// entry. The pattern is compiled when first used.
func (r *Registry) SetRegex(name, source string) {
	r.regexes[name] = &pattern{source: source}
}

// SetCompiledRegex registers an already compiled pattern under name.
func (r *Registry) SetCompiledRegex(name string, re *regexp.Regexp) {
	r.regexes[name] = &pattern{source: re.String(), compiled: re}
}

// SetType registers a custom predicate under name.
func (r *Registry) SetType(name string, fn Predicate) {
	r.types[name] = fn
}

// SetAlias maps an operator or shorthand to a rule name.
func (r *Registry) SetAlias(alias, name string) {
	r.aliases[alias] = name
}

// HasRegex reports whether a pattern is registered under name.
func (r *Registry) HasRegex(name string) bool {
	_, ok := r.regexes[name]
	return ok
}

// HasType reports whether a custom predicate is registered under name.
func (r *Registry) HasType(name string) bool {
	_, ok := r.types[name]
	return ok
}

// resolveAlias returns the rule name an alias stands for, or name itself.
func (r *Registry) resolveAlias(name string) string {
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// regex returns the compiled pattern registered under name.
func (r *Registry) regex(name string) (*regexp.Regexp, bool, error) {
	p, ok := r.regexes[name]
	if !ok {
		return nil, false, nil
	}
	if p.compiled == nil {
		re, err := regexp.Compile(p.source)
		if err != nil {
			return nil, true, &PatternError{Name: name, Pattern: p.source, Cause: err}
		}
		p.compiled = re
	}
	return p.compiled, true, nil
}

// names lists every rule name the registry can resolve, for suggestions.
func (r *Registry) names() []string {
	out := make([]string, 0, len(r.regexes)+len(r.types)+len(r.aliases))
	for name := range r.regexes {
		out = append(out, name)
	}
	for name := range r.types {
		out = append(out, name)
	}
	for alias := range r.aliases {
		out = append(out, alias)
	}
	return out
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		regexes: make(map[string]*pattern, len(r.regexes)),
		types:   maps.Clone(r.types),
		aliases: maps.Clone(r.aliases),
	}
	for name, p := range r.regexes {
		cp := *p
		c.regexes[name] = &cp
	}
	return c
}
