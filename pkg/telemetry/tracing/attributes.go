package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCheck = "verity.check"
	SpanLoad  = "verity.load"
	SpanStore = "verity.store"
	SpanPrune = "verity.prune"
)

// Attribute keys.
const (
	AttrRunID    = "verity.run_id"
	AttrRuleFile = "verity.rule_file"
	AttrDataFile = "verity.data_file"
	AttrPassed   = "verity.passed"
	AttrBatch    = "verity.batch"
	AttrFailures = "verity.failures"
	AttrFields   = "verity.fields"
	AttrPruned   = "verity.pruned"
	AttrReportID = "verity.report_id"
)

// CheckAttributes describe a check before it runs.
func CheckAttributes(runID, ruleFile, dataFile string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrRuleFile, ruleFile),
		attribute.String(AttrDataFile, dataFile),
	}
}

// SetCheckResult records a check outcome on span.
func SetCheckResult(span trace.Span, passed, batch bool, fields, failures int) {
	span.SetAttributes(
		attribute.Bool(AttrPassed, passed),
		attribute.Bool(AttrBatch, batch),
		attribute.Int(AttrFields, fields),
		attribute.Int(AttrFailures, failures),
	)
}
