package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownRule is matched by every UnknownRuleError.
var ErrUnknownRule = errors.New("unknown rule")

// UnknownRuleError reports a rule name that resolves to no builtin, named
// predicate, registered regex or registered type.
type UnknownRuleError struct {
	Field      string
	Rule       string
	Suggestion string
}

// Error returns the error message.
func (e *UnknownRuleError) Error() string {
	msg := fmt.Sprintf("field %q: unknown rule %q", e.Field, e.Rule)
	if e.Suggestion != "" {
		msg += ". " + e.Suggestion
	}
	return msg
}

// Is reports whether target is ErrUnknownRule.
func (e *UnknownRuleError) Is(target error) bool {
	return target == ErrUnknownRule
}

// PatternError reports a registered regular expression that does not
// compile.
type PatternError struct {
	Name    string
	Pattern string
	Cause   error
}

// Error returns the error message.
func (e *PatternError) Error() string {
	return fmt.Sprintf("regex %q (%s): %v", e.Name, e.Pattern, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// LintError collects every configuration problem found in a rule set.
type LintError struct {
	Errors []error
}

// Error returns the error message.
func (e *LintError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = "  - " + err.Error()
	}
	return fmt.Sprintf("%d rule errors:\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

// Unwrap returns the collected errors.
func (e *LintError) Unwrap() []error {
	return e.Errors
}

// suggestRule proposes the closest known rule name, if any is close enough.
func suggestRule(unknown string, known []string) string {
	if len(known) == 0 {
		return ""
	}
	slices.Sort(known)

	best, bestDist := "", len(unknown)+1
	for _, name := range known {
		if d := levenshtein(strings.ToLower(unknown), strings.ToLower(name)); d < bestDist {
			best, bestDist = name, d
		}
	}
	if best == "" || bestDist > 2 || bestDist >= len(unknown) {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", best)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
