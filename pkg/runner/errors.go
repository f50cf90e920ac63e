package runner

import "fmt"

// Error kinds. They double as the "kind" label of the config error metric.
const (
	KindParse       = "parse"
	KindLint        = "lint"
	KindData        = "data"
	KindUnknownRule = "unknown_rule"
	KindBadPattern  = "bad_pattern"
	KindCheck       = "check"
)

// RunError is returned when a check could not produce a report.
type RunError struct {
	Kind    string
	Request Request
	Err     error
}

// Error returns the error message.
func (e *RunError) Error() string {
	switch e.Kind {
	case KindData:
		return fmt.Sprintf("data file %s: %v", e.Request.DataPath, e.Err)
	default:
		return fmt.Sprintf("rule file %s: %v", e.Request.RulesPath, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}
