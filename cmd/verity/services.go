package main

import (
	"context"
	"time"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/recorder"
	"mercator-hq/verity/pkg/report/storage"
	"mercator-hq/verity/pkg/runner"
	"mercator-hq/verity/pkg/telemetry/logging"
	"mercator-hq/verity/pkg/telemetry/metrics"
	"mercator-hq/verity/pkg/telemetry/tracing"
)

// shutdownTimeout bounds flushing traces and queued reports on exit.
const shutdownTimeout = 5 * time.Second

// services bundles what the check and watch commands share.
type services struct {
	logger   *logging.Logger
	store    report.Storage
	recorder *recorder.Recorder
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
}

// newServices opens report storage when record is set and creates the
// metrics collector and tracer from cfg.
func newServices(cfg *config.Config, record bool) (*services, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}

	s.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	if record {
		s.store, err = storage.New(&cfg.Reports)
		if err != nil {
			s.Close()
			return nil, cli.NewCommandError("reports", err)
		}
		s.recorder = recorder.New(s.store, nil)
		s.recorder.OnError(func(op string, _ error) {
			s.metrics.RecordStorageError(op)
		})
	}

	return s, nil
}

// runner creates a runner wired to every service.
func (s *services) runner(cfg *config.ValidationConfig) *runner.Runner {
	opts := []runner.Option{
		runner.WithLogger(s.logger),
		runner.WithMetrics(s.metrics),
		runner.WithTracer(s.tracer),
	}
	if s.recorder != nil {
		opts = append(opts, runner.WithRecorder(s.recorder))
	}
	return runner.New(cfg, opts...)
}

// Close drains queued reports, closes storage and flushes traces.
func (s *services) Close() {
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close report storage", "error", err)
		}
	}
	if s.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.tracer.Shutdown(ctx); err != nil {
			s.logger.Warn("failed to flush traces", "error", err)
		}
	}
}
