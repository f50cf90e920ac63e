package report

import (
	"errors"
	"testing"
	"time"
)

func TestQuery_Validate(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{"empty", Query{}, false},
		{"full", Query{Start: &earlier, End: &now, Limit: 10, Offset: 5, SortOrder: SortAsc, Status: StatusFailed}, false},
		{"negative limit", Query{Limit: -1}, true},
		{"limit too large", Query{Limit: MaxLimit + 1}, true},
		{"negative offset", Query{Offset: -1}, true},
		{"bad sort order", Query{SortOrder: "up"}, true},
		{"inverted range", Query{Start: &now, End: &earlier}, true},
		{"bad status", Query{Status: "blocked"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var qe *QueryError
			if err != nil && !errors.As(err, &qe) {
				t.Errorf("error %T is not a *QueryError", err)
			}
		})
	}
}

func TestQuery_WithDefaults(t *testing.T) {
	q := Query{}.WithDefaults()
	if q.Limit != DefaultLimit || q.SortOrder != SortDesc {
		t.Errorf("WithDefaults() = %+v", q)
	}
	q = Query{Limit: 5, SortOrder: SortAsc}.WithDefaults()
	if q.Limit != 5 || q.SortOrder != SortAsc {
		t.Errorf("WithDefaults() overrode explicit values: %+v", q)
	}
}

func TestQuery_Matches(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &Record{RunID: "r", RuleFile: "a.yaml", DataFile: "d.json", Passed: false, CheckedAt: at}
	yes, no := true, false
	before, after := at.Add(-time.Minute), at.Add(time.Minute)

	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"rule file", Query{RuleFile: "a.yaml"}, true},
		{"other rule file", Query{RuleFile: "b.yaml"}, false},
		{"data file", Query{DataFile: "d.json"}, true},
		{"passed", Query{Passed: &yes}, false},
		{"not passed", Query{Passed: &no}, true},
		{"run id", Query{RunID: "x"}, false},
		{"status", Query{Status: StatusFailed}, true},
		{"in range", Query{Start: &before, End: &after}, true},
		{"inclusive bounds", Query{Start: &at, End: &at}, true},
		{"too late", Query{Start: &after}, false},
		{"too early", Query{End: &before}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(rec); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
