// Package watch re-runs checks when data files or the rule file change.
//
// A Watcher follows the configured paths with fsnotify. Paths may be files
// or directories; directories are followed recursively and filtered by
// extension, hidden entries are skipped. Files are watched through their
// parent directory so editors that save by rename keep working.
//
// Events are debounced per file. A change to a data file re-checks that
// file; a change to the rule file re-checks every data file. An optional
// cron schedule re-checks every data file periodically.
//
//	w, err := watch.New(&cfg.Watch, watch.WithRulesPath(cfg.Validation.RulesPath))
//	if err != nil {
//	    return err
//	}
//	return w.Watch(ctx, func(ctx context.Context, path string) {
//	    runner.Run(ctx, runner.Request{DataPath: path})
//	})
package watch
