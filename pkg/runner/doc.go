// Package runner checks data files against rule files.
//
// A Runner owns everything a check needs beyond the validation engine: it
// loads and optionally lints the rule file, decodes the data file, runs the
// check on a private clone of its base validator, and reports the outcome
// to logs, metrics, traces and report storage.
//
// Basic usage:
//
//	r := runner.New(&cfg.Validation,
//	    runner.WithMetrics(collector),
//	    runner.WithRecorder(rec),
//	)
//
//	res, err := r.Run(ctx, runner.Request{
//	    RulesPath: "rules.yaml",
//	    DataPath:  "user.json",
//	})
//	if err != nil {
//	    // the rule file or the data file is broken
//	}
//	if !res.Passed() {
//	    fmt.Println(res.Report)
//	}
//
// A Runner is safe for concurrent use: every Run works on its own clone of
// the base validator.
package runner
