package validate

import (
	"encoding/json"
	"strings"
)

// ReportKind distinguishes the three shapes of a validation result.
type ReportKind int

const (
	// ReportSuccess means no field failed.
	ReportSuccess ReportKind = iota
	// ReportBatch holds one message per failing field.
	ReportBatch
	// ReportSingle holds the message of the first failing field.
	ReportSingle
)

// String returns the kind name.
func (k ReportKind) String() string {
	switch k {
	case ReportBatch:
		return "batch"
	case ReportSingle:
		return "single"
	default:
		return "success"
	}
}

// Failure is a failed field and its message.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Report is the result of the most recent check.
type Report struct {
	kind     ReportKind
	failures []Failure
}

func batchReport(failures []Failure) Report {
	if len(failures) == 0 {
		return Report{}
	}
	return Report{kind: ReportBatch, failures: failures}
}

func singleReport(field, message string) Report {
	return Report{kind: ReportSingle, failures: []Failure{{Field: field, Message: message}}}
}

// Kind returns the report shape.
func (r Report) Kind() ReportKind {
	return r.kind
}

// Passed reports whether the check found no failures.
func (r Report) Passed() bool {
	return len(r.failures) == 0
}

// Failures returns the failures in rule-set order.
func (r Report) Failures() []Failure {
	return append([]Failure(nil), r.failures...)
}

// Fields returns the failing field keys in rule-set order.
func (r Report) Fields() []string {
	out := make([]string, len(r.failures))
	for i, f := range r.failures {
		out[i] = f.Field
	}
	return out
}

// Get returns the message recorded for field.
func (r Report) Get(field string) (string, bool) {
	for _, f := range r.failures {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// Message returns the single message of a fail-fast report, or the first
// message of a batch report.
func (r Report) Message() string {
	if len(r.failures) == 0 {
		return ""
	}
	return r.failures[0].Message
}

// Map returns field → message for every failure.
func (r Report) Map() map[string]string {
	out := make(map[string]string, len(r.failures))
	for _, f := range r.failures {
		out[f.Field] = f.Message
	}
	return out
}

// String joins the messages, one "field: message" per line.
func (r Report) String() string {
	switch r.kind {
	case ReportSingle:
		return r.failures[0].Message
	case ReportBatch:
		lines := make([]string, len(r.failures))
		for i, f := range r.failures {
			lines[i] = f.Field + ": " + f.Message
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// MarshalJSON encodes a batch report as an object, a single report as a
// string, and success as an empty object.
func (r Report) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case ReportSingle:
		return json.Marshal(r.failures[0].Message)
	case ReportBatch:
		return json.Marshal(r.Map())
	}
	return []byte("{}"), nil
}
