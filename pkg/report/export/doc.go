// Package export writes report records as JSON or CSV.
//
// Both exporters implement report.Exporter. JSON keeps the full record,
// including every failure. CSV flattens failures into "field: message"
// pairs joined by "; " so each record is one row.
//
//	exp, err := export.ForFormat("csv")
//	if err != nil {
//	    return err
//	}
//	return exp.Export(ctx, records, os.Stdout)
package export
