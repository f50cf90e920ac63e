package report

import (
	"fmt"
	"time"
)

const (
	// DefaultLimit is the number of records returned when Limit is zero.
	DefaultLimit = 100

	// MaxLimit is the largest allowed Limit.
	MaxLimit = 10000
)

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query filters stored records. Zero fields do not filter.
type Query struct {
	// Time range on CheckedAt
	Start *time.Time `json:"start,omitempty"` // Inclusive
	End   *time.Time `json:"end,omitempty"`   // Inclusive

	// Filters
	Passed   *bool  `json:"passed,omitempty"`
	RuleFile string `json:"rule_file,omitempty"`
	DataFile string `json:"data_file,omitempty"`
	RunID    string `json:"run_id,omitempty"`
	Status   string `json:"status,omitempty"` // "passed", "failed", "error"

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder orders by CheckedAt: "asc" or "desc" (default).
	SortOrder string `json:"sort_order,omitempty"`
}

// Validate checks the query parameters.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}
	if q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		return NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return NewQueryError(q, fmt.Errorf("start must be before end"))
	}
	switch q.Status {
	case "", StatusPassed, StatusFailed, StatusError:
	default:
		return NewQueryError(q, fmt.Errorf("invalid status: %s (must be 'passed', 'failed' or 'error')", q.Status))
	}
	return nil
}

// WithDefaults returns a copy of q with the default limit and sort order
// applied.
func (q Query) WithDefaults() Query {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	return q
}

// Matches reports whether rec passes every filter in q. Pagination is not
// considered.
func (q *Query) Matches(rec *Record) bool {
	if q.Start != nil && rec.CheckedAt.Before(*q.Start) {
		return false
	}
	if q.End != nil && rec.CheckedAt.After(*q.End) {
		return false
	}
	if q.Passed != nil && rec.Passed != *q.Passed {
		return false
	}
	if q.RuleFile != "" && rec.RuleFile != q.RuleFile {
		return false
	}
	if q.DataFile != "" && rec.DataFile != q.DataFile {
		return false
	}
	if q.RunID != "" && rec.RunID != q.RunID {
		return false
	}
	if q.Status != "" && rec.Status() != q.Status {
		return false
	}
	return true
}
