package ruleset

import (
	"errors"
	"regexp"

	"mercator-hq/verity/pkg/validate"
)

// Lint checks that every pattern in f compiles and every rule token
// resolves against v's registry with f's aliases and regexes applied. v is
// not modified. It returns an *ErrorList, or nil when the file is clean.
func Lint(f *File, v *validate.Validator) error {
	var errs ErrorList

	defined := make(map[string]bool, len(f.Regexes))
	for _, pat := range f.Regexes {
		defined[pat.Name] = true
		if _, err := regexp.Compile(pat.Source); err != nil {
			pe := errs.Add(ErrorTypeRule, pat.Location, "regex %q does not compile: %v", pat.Name, err)
			pe.Err = err
		}
	}

	probe := v.Clone()
	for _, a := range f.Aliases {
		probe.Alias(a.Alias, a.Rule)
	}
	for _, pat := range f.Regexes {
		probe.Regex(pat.Name, pat.Source)
	}

	for _, r := range f.Rules {
		for _, tok := range r.Tokens {
			err := probe.Lint(validate.RuleSet{validate.Field(r.Field, validate.Tokens(tok.Token))})
			if err == nil {
				continue
			}
			var le *validate.LintError
			if !errors.As(err, &le) {
				errs.Add(ErrorTypeRule, tok.Location, "field %q: %v", r.Field, err).Err = err
				continue
			}
			for _, e := range le.Errors {
				addTokenError(&errs, tok.Location, r.Field, e, defined)
			}
		}
	}

	return errs.err()
}

func addTokenError(errs *ErrorList, loc Location, field string, err error, defined map[string]bool) {
	var ure *validate.UnknownRuleError
	if errors.As(err, &ure) {
		pe := errs.Add(ErrorTypeRule, loc, "field %q: unknown rule %q", field, ure.Rule)
		pe.Suggestion = ure.Suggestion
		pe.Err = err
		return
	}

	// Patterns from the file were already reported where they are defined.
	var pat *validate.PatternError
	if errors.As(err, &pat) && defined[pat.Name] {
		return
	}

	errs.Add(ErrorTypeRule, loc, "field %q: %v", field, err).Err = err
}
