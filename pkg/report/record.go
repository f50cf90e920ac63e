package report

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/verity/pkg/validate"
)

// Record statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusError  = "error"
)

// Record is the stored result of one check.
type Record struct {
	// Identity
	ID    string `json:"id"`     // UUID v4
	RunID string `json:"run_id"` // Shared by every check of one invocation

	// Inputs
	RuleFile string `json:"rule_file"`
	DataFile string `json:"data_file"`

	// Outcome
	Passed   bool               `json:"passed"`
	Batch    bool               `json:"batch"`
	Failures []validate.Failure `json:"failures,omitempty"`
	Error    string             `json:"error,omitempty"` // Rule file or data problem

	// Timing
	CheckedAt time.Time     `json:"checked_at"`
	Duration  time.Duration `json:"duration"`
}

// NewRecord creates a record for rep with a fresh ID and CheckedAt set to
// now.
func NewRecord(runID string, batch bool, rep validate.Report) *Record {
	return &Record{
		ID:        uuid.NewString(),
		RunID:     runID,
		Passed:    rep.Passed(),
		Batch:     batch,
		Failures:  rep.Failures(),
		CheckedAt: time.Now().UTC(),
	}
}

// NewErrorRecord creates a record for a check that could not run.
func NewErrorRecord(runID string, err error) *Record {
	return &Record{
		ID:        uuid.NewString(),
		RunID:     runID,
		Error:     err.Error(),
		CheckedAt: time.Now().UTC(),
	}
}

// Status returns StatusError when the check could not run, otherwise
// StatusPassed or StatusFailed.
func (r *Record) Status() string {
	switch {
	case r.Error != "":
		return StatusError
	case r.Passed:
		return StatusPassed
	default:
		return StatusFailed
	}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	if r.Failures != nil {
		c.Failures = append([]validate.Failure(nil), r.Failures...)
	}
	return &c
}
