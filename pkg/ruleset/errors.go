package ruleset

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a rule file problem.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML syntax error
	ErrorTypeStructural ErrorType = "structural" // wrong shape or unknown key
	ErrorTypeRule       ErrorType = "rule"       // unknown rule or bad pattern
	ErrorTypeIO         ErrorType = "io"         // file could not be read
)

// ParseError is a single rule file problem.
type ParseError struct {
	Type       ErrorType
	Message    string
	Location   Location
	Suggestion string
	Err        error
}

// Error formats the problem as "file:line:col: [type] message".
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Location.String())
	sb.WriteString(": [")
	sb.WriteString(string(e.Type))
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorList collects every problem found in a rule file.
type ErrorList struct {
	Errors []*ParseError
}

// Add appends a problem.
func (el *ErrorList) Add(typ ErrorType, loc Location, format string, args ...any) *ParseError {
	pe := &ParseError{Type: typ, Location: loc, Message: fmt.Sprintf(format, args...)}
	el.Errors = append(el.Errors, pe)
	return pe
}

// HasErrors reports whether any problem was collected.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error lists every problem, one per line.
func (el *ErrorList) Error() string {
	if len(el.Errors) == 1 {
		return el.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d problems:", len(el.Errors))
	for _, e := range el.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap returns the collected problems.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.Errors))
	for i, e := range el.Errors {
		errs[i] = e
	}
	return errs
}

// err returns el when it holds problems, nil otherwise.
func (el *ErrorList) err() error {
	if el.HasErrors() {
		return el
	}
	return nil
}
