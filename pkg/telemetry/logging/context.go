package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the ID of one check run.
	RunIDKey contextKey = "run_id"

	// RuleFileKey is the context key for the rule file being evaluated.
	RuleFileKey contextKey = "rule_file"

	// DataFileKey is the context key for the data file being checked.
	DataFileKey contextKey = "data_file"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	return stringValue(ctx, RunIDKey)
}

// WithRuleFile adds the rule file path to the context.
func WithRuleFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, RuleFileKey, path)
}

// GetRuleFile retrieves the rule file path from the context.
func GetRuleFile(ctx context.Context) string {
	return stringValue(ctx, RuleFileKey)
}

// WithDataFile adds the data file path to the context.
func WithDataFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, DataFileKey, path)
}

// GetDataFile retrieves the data file path from the context.
func GetDataFile(ctx context.Context) string {
	return stringValue(ctx, DataFileKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the context's fields as key-value pairs
// suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range []contextKey{RunIDKey, RuleFileKey, DataFileKey, TraceIDKey} {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
