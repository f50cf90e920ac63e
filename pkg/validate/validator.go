package validate

import (
	"log/slog"
	"maps"
	"regexp"
	"slices"
)

// Validator checks data against an ordered rule set. Configure it with the
// fluent setters, then call Check.
//
// A Validator is not safe for concurrent use. Use Clone to give each
// goroutine its own copy of a configured validator.
type Validator struct {
	registry *Registry
	messages messageTable
	rules    RuleSet
	batch    bool
	report   Report
	logger   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger that receives rule diagnostics, such as a
// between rule without a range.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithRegistry makes the validator resolve rules against reg instead of a
// fresh registry.
func WithRegistry(reg *Registry) Option {
	return func(v *Validator) {
		if reg != nil {
			v.registry = reg
		}
	}
}

// New returns a validator in batch mode with the default registry.
func New(opts ...Option) *Validator {
	v := &Validator{
		registry: NewRegistry(),
		batch:    true,
		logger:   slog.Default().With("component", "validate"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Batch toggles batch mode. In batch mode every field is checked and each
// failing field is reported; otherwise checking stops at the first failure.
func (v *Validator) Batch(enabled bool) *Validator {
	v.batch = enabled
	return v
}

// IsBatch reports whether batch mode is on.
func (v *Validator) IsBatch() bool {
	return v.batch
}

// Regex registers a named pattern.
func (v *Validator) Regex(name, pattern string) *Validator {
	v.registry.SetRegex(name, pattern)
	return v
}

// RegexCompiled registers a compiled pattern.
func (v *Validator) RegexCompiled(name string, re *regexp.Regexp) *Validator {
	v.registry.SetCompiledRegex(name, re)
	return v
}

// Regexes merges a table of named patterns.
func (v *Validator) Regexes(patterns map[string]string) *Validator {
	for _, name := range slices.Sorted(maps.Keys(patterns)) {
		v.registry.SetRegex(name, patterns[name])
	}
	return v
}

// Type registers a custom predicate.
func (v *Validator) Type(name string, fn Predicate) *Validator {
	v.registry.SetType(name, fn)
	return v
}

// Types merges a table of custom predicates.
func (v *Validator) Types(types map[string]Predicate) *Validator {
	for name, fn := range types {
		v.registry.SetType(name, fn)
	}
	return v
}

// Alias maps an operator or shorthand to a rule name.
func (v *Validator) Alias(alias, name string) *Validator {
	v.registry.SetAlias(alias, name)
	return v
}

// Message sets a custom message. key is a field, a "field.label" compound,
// or a comma-separated list of either.
func (v *Validator) Message(key, text string) *Validator {
	v.messages = v.messages.set(key, text)
	return v
}

// Messages merges custom messages in key order.
func (v *Validator) Messages(messages map[string]string) *Validator {
	for _, key := range slices.Sorted(maps.Keys(messages)) {
		v.messages = v.messages.set(key, messages[key])
	}
	return v
}

// Rule sets the default rule for field.
func (v *Validator) Rule(field string, spec Spec) *Validator {
	v.rules = v.rules.Set(field, spec)
	return v
}

// Rules merges rs into the default rule set.
func (v *Validator) Rules(rs RuleSet) *Validator {
	for _, fr := range rs {
		v.rules = v.rules.Set(fr.Field, fr.Spec)
	}
	return v
}

// RuleSet returns a copy of the default rule set.
func (v *Validator) RuleSet() RuleSet {
	return slices.Clone(v.rules)
}

// Registry returns the validator's registry.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Check validates data against the default rule set.
func (v *Validator) Check(data any) (bool, error) {
	return v.CheckRules(data, v.rules)
}

// CheckRules validates data against rules. It reports whether every field
// passed; the details are available from Error. A non-nil error means the
// rule set itself is broken, for example it names an unknown rule.
func (v *Validator) CheckRules(data any, rules RuleSet) (bool, error) {
	v.report = Report{}

	var failures []Failure
	for _, fr := range rules {
		value := Resolve(data, fr.Field)

		msg, ok, err := v.checkField(fr, value, data)
		if err != nil {
			return false, err
		}
		if ok {
			continue
		}
		if !v.batch {
			v.report = singleReport(fr.Field, msg)
			return false, nil
		}
		failures = append(failures, Failure{Field: fr.Field, Message: msg})
	}

	v.report = batchReport(failures)
	return v.report.Passed(), nil
}

func (v *Validator) checkField(fr FieldRule, value, data any) (string, bool, error) {
	if fr.Spec.check != nil {
		if err := fr.Spec.check(value, data); err != nil {
			return err.Error(), false, nil
		}
		return "", true, nil
	}
	return v.checkItem(fr.Field, value, fr.Spec.tokens, data)
}

// checkItem runs the tokens of one field in order. require and has always
// run; every other rule is skipped while the value is empty. The first
// failing token decides the field's message.
func (v *Validator) checkItem(field string, value any, tokens []Token, data any) (string, bool, error) {
	skip := IsEmpty(value) && !isNumericZero(value)

	for _, tok := range tokens {
		if blank(tok) {
			continue
		}
		rule, err := classify(tok, v.registry)
		if err != nil {
			return "", false, withField(err, field)
		}
		if skip && rule.Label != "require" && rule.Label != "has" {
			continue
		}

		passed := rule.fn(call{
			value:  value,
			param:  rule.Param,
			data:   data,
			field:  field,
			logger: v.logger,
		})
		if !passed {
			return v.messages.resolve(field, rule.Label), false, nil
		}
	}
	return "", true, nil
}

// withField attaches the field key to an unknown-rule error.
func withField(err error, field string) error {
	if ure, ok := err.(*UnknownRuleError); ok {
		ure.Field = field
	}
	return err
}

// Error returns the report of the most recent check.
func (v *Validator) Error() Report {
	return v.report
}

// Clear resets the report, batch mode, messages and default rules. The
// registered regexes and types are kept.
func (v *Validator) Clear() *Validator {
	v.report = Report{}
	v.batch = true
	v.messages = nil
	v.rules = nil
	return v
}

// Clone returns an independent copy of the validator's configuration. The
// report is not copied.
func (v *Validator) Clone() *Validator {
	return &Validator{
		registry: v.registry.Clone(),
		messages: v.messages.clone(),
		rules:    slices.Clone(v.rules),
		batch:    v.batch,
		logger:   v.logger,
	}
}

// Lint classifies every token of rs without data and returns a *LintError
// listing every unknown rule and bad pattern.
func (v *Validator) Lint(rs RuleSet) error {
	var errs []error
	for _, fr := range rs {
		for _, tok := range fr.Spec.tokens {
			if blank(tok) {
				continue
			}
			if _, err := classify(tok, v.registry); err != nil {
				errs = append(errs, withField(err, fr.Field))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &LintError{Errors: errs}
}
