// Package tracing wraps OpenTelemetry for verity.
//
// Each check run gets a "verity.check" span carrying the rule file, data
// file, outcome and failure count. Spans are exported over OTLP gRPC when
// tracing is enabled; otherwise a noop tracer keeps the call sites free of
// conditionals.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanCheck)
//	defer span.End()
//
// # Sampling
//
// The sampler is "always", "never" or "ratio" (TraceIDRatioBased), wrapped
// in ParentBased so a sampled parent always yields sampled children.
package tracing
