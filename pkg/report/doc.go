// Package report keeps a history of check results.
//
// Every check run by the runner produces a Record: which rule file was
// applied to which data file, whether it passed, the failing fields and
// their messages, and how long it took. Records are written to a Storage
// backend (see the storage subpackage) and can be queried, exported (see
// export) and pruned by age (see retention).
//
// # Record Lifecycle
//
//	rec := report.NewRecord(runID, v.IsBatch(), v.Error())
//	rec.RuleFile, rec.DataFile = rulesPath, dataPath
//	rec.Duration = time.Since(start)
//	if err := store.Store(ctx, rec); err != nil {
//	    logger.Error("failed to store report", "error", err)
//	}
//
// A check that could not run because the rule file is broken is still
// recorded, with Error set and Passed false.
//
// # Thread Safety
//
// Storage implementations are safe for concurrent use.
package report
