// Package telemetry groups the observability packages used by Verity.
//
// # Components
//
//   - logging: structured slog logging with run, rule file and data file
//     fields taken from the context
//   - metrics: Prometheus counters and histograms for checks, watch events
//     and report storage
//   - tracing: OpenTelemetry spans for loading rule files and checking data
//   - health: liveness, readiness and version endpoints for watch mode
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.Config{
//		Level:  cfg.Telemetry.Logging.Level,
//		Format: cfg.Telemetry.Logging.Format,
//	})
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordCheck("rules.yaml", false, elapsed, []string{"email"})
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	ctx, span := tracer.Start(ctx, tracing.SpanCheck)
//	defer span.End()
//
// Every component is a no-op when disabled in configuration.
package telemetry
