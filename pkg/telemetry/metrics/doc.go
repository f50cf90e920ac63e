// Package metrics exposes Prometheus metrics for verity.
//
// Metrics (with the default "verity" namespace):
//   - verity_checks_total{rule_file,result}: checks by outcome
//     (passed, failed, error)
//   - verity_check_duration_seconds{rule_file}: check latency
//   - verity_field_failures_total{rule_file,field}: failing fields, with
//     field labels capped by a cardinality limiter
//   - verity_config_errors_total{rule_file,kind}: broken rule files
//   - verity_reports_pruned_total: reports removed by retention
//   - verity_storage_errors_total{operation}: report storage failures
//   - verity_watch_events_total{op}: file events seen by the watcher
//
// Every Record method is a no-op when metrics are disabled, so callers never
// need to check the configuration themselves.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
