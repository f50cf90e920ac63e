package ruleset

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/verity/pkg/validate"
)

func TestLint_Clean(t *testing.T) {
	f, err := Parse([]byte(sampleRules), "rules.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := Lint(f, validate.New()); err != nil {
		t.Errorf("Lint() error = %v", err)
	}
}

func TestLint_Problems(t *testing.T) {
	src := `regex:
  broken: '(['
aliases:
  "~": eq
rules:
  name: requird|max:25
  code: broken
  other:
    "~": name
  ok: require
`
	f, err := Parse([]byte(src), "lint.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	v := validate.New()
	err = Lint(f, v)

	var el *ErrorList
	if !errors.As(err, &el) {
		t.Fatalf("Lint() error = %v, want *ErrorList", err)
	}
	if len(el.Errors) != 2 {
		t.Fatalf("got %d problems, want 2: %v", len(el.Errors), err)
	}

	pattern := el.Errors[0]
	if pattern.Type != ErrorTypeRule || pattern.Location.Line != 2 || !strings.Contains(pattern.Message, `regex "broken"`) {
		t.Errorf("pattern problem = %+v", pattern)
	}

	unknown := el.Errors[1]
	if unknown.Location.Line != 6 || !strings.Contains(unknown.Message, `unknown rule "requird"`) {
		t.Errorf("unknown rule problem = %+v", unknown)
	}
	if unknown.Suggestion != "Did you mean 'require'?" {
		t.Errorf("Suggestion = %q", unknown.Suggestion)
	}
	if !errors.Is(err, validate.ErrUnknownRule) {
		t.Error("errors.Is(err, ErrUnknownRule) = false")
	}

	if v.Registry().HasRegex("broken") {
		t.Error("Lint modified the validator's registry")
	}
}
