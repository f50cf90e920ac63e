// Package retention prunes old report records.
//
// A Pruner deletes records older than the configured number of days,
// optionally archiving them to a JSON file first. A Scheduler runs the
// pruner on a cron schedule (standard five-field syntax):
//
//	pruner := retention.NewPruner(store, &cfg.Reports.Retention)
//	pruner.OnPrune(collector.RecordPruned)
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
//
// Days of zero keeps records forever and makes Prune a no-op.
package retention
