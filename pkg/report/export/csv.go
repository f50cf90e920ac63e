package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/verity/pkg/report"
)

// CSVExporter writes one row per record.
type CSVExporter struct {
	// IncludeHeader writes a header row first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

var csvHeader = []string{
	"id", "run_id", "rule_file", "data_file",
	"status", "batch", "failure_count", "failures", "error",
	"checked_at", "duration_ms",
}

// Export writes records to w.
func (e *CSVExporter) Export(ctx context.Context, records []*report.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return report.NewExportError("csv", len(records), err)
		}
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(rec)); err != nil {
			return report.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return report.NewExportError("csv", len(records), err)
	}
	return nil
}

func recordToRow(rec *report.Record) []string {
	failures := make([]string, len(rec.Failures))
	for i, f := range rec.Failures {
		failures[i] = f.Field + ": " + f.Message
	}

	checkedAt := ""
	if !rec.CheckedAt.IsZero() {
		checkedAt = rec.CheckedAt.Format(time.RFC3339)
	}

	return []string{
		rec.ID,
		rec.RunID,
		rec.RuleFile,
		rec.DataFile,
		rec.Status(),
		strconv.FormatBool(rec.Batch),
		strconv.Itoa(len(rec.Failures)),
		strings.Join(failures, "; "),
		rec.Error,
		checkedAt,
		fmt.Sprintf("%.3f", float64(rec.Duration)/float64(time.Millisecond)),
	}
}

// ForFormat returns the exporter for "json" or "csv".
func ForFormat(format string) (report.Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONExporter(true), nil
	case "csv":
		return NewCSVExporter(true), nil
	}
	return nil, fmt.Errorf("unsupported export format %q (valid: json, csv)", format)
}
