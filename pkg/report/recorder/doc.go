// Package recorder writes report records to storage in the background.
//
// Record enqueues a record and returns immediately; a single worker drains
// the queue into report.Storage. Close stops accepting records and blocks
// until every queued record has been written, so a short-lived command can
// record its result and still exit promptly:
//
//	rec := recorder.New(store, nil)
//	defer rec.Close()
//
//	rec.Record(ctx, record)
package recorder
