package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/verity/pkg/report"
)

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records to w. An empty slice is written as "[]".
func (e *JSONExporter) Export(ctx context.Context, records []*report.Record, w io.Writer) error {
	if records == nil {
		records = []*report.Record{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return report.NewExportError("json", len(records), err)
	}
	return nil
}
