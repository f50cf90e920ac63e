package logging

import (
	"context"
	"slices"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRunID(ctx, "run-123")
	if got := GetRunID(ctx); got != "run-123" {
		t.Errorf("GetRunID() = %q, want %q", got, "run-123")
	}

	ctx = WithRuleFile(ctx, "rules.yaml")
	if got := GetRuleFile(ctx); got != "rules.yaml" {
		t.Errorf("GetRuleFile() = %q, want %q", got, "rules.yaml")
	}

	ctx = WithDataFile(ctx, "data.json")
	if got := GetDataFile(ctx); got != "data.json" {
		t.Errorf("GetDataFile() = %q, want %q", got, "data.json")
	}

	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}
}

func TestContextKeys_Missing(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetRuleFile(ctx) != "" || GetDataFile(ctx) != "" || GetTraceID(ctx) != "" {
		t.Errorf("empty context returned values")
	}
}

func TestExtractContextFields(t *testing.T) {
	ctx := WithTraceID(WithRunID(context.Background(), "r1"), "t1")

	got := extractContextFields(ctx)
	want := []any{"run_id", "r1", "trace_id", "t1"}
	if !slices.Equal(got, want) {
		t.Errorf("extractContextFields() = %v, want %v", got, want)
	}
}
