package runner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/ruleset"
	"mercator-hq/verity/pkg/telemetry/logging"
	"mercator-hq/verity/pkg/telemetry/metrics"
	"mercator-hq/verity/pkg/telemetry/tracing"
	"mercator-hq/verity/pkg/validate"
)

// Request names the files of one check. An empty RulesPath uses the
// configured default rule file.
type Request struct {
	RulesPath string
	DataPath  string
}

// Result is the outcome of a check that ran.
type Result struct {
	RunID    string
	RuleFile string
	DataFile string
	Batch    bool
	Fields   int
	Report   validate.Report
	RecordID string
	Duration time.Duration
}

// Passed reports whether every field passed.
func (r *Result) Passed() bool {
	return r.Report.Passed()
}

// Recorder persists report records.
type Recorder interface {
	Record(ctx context.Context, rec *report.Record) error
}

// Runner checks data files against rule files.
type Runner struct {
	config   *config.ValidationConfig
	base     *validate.Validator
	recorder Recorder
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	logger   *logging.Logger
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithValidator sets the base validator. Its regexes, types, aliases and
// messages apply to every check. It is cloned, never mutated.
func WithValidator(v *validate.Validator) Option {
	return func(r *Runner) {
		r.base = v
	}
}

// WithRecorder stores a record of every check.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithMetrics records check metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = c
	}
}

// WithTracer traces every check with t.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithRunID sets the run ID shared by every record of this runner.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// New creates a runner. A nil config uses the defaults.
func New(cfg *config.ValidationConfig, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &config.Default().Validation
	}

	r := &Runner{config: cfg}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger, _ = logging.New(logging.Config{Format: string(logging.FormatText)})
	}
	r.logger = r.logger.WithComponent("runner")
	if r.base == nil {
		r.base = validate.New(validate.WithLogger(r.logger.Slog()))
	}
	if r.tracer == nil {
		r.tracer, _ = tracing.New(&config.TracingConfig{}, "")
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID returns the run ID stamped on every record.
func (r *Runner) RunID() string {
	return r.runID
}

// Run checks the data file of req against its rule file. A failing check
// is not an error; err is a *RunError only when no report could be
// produced.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.RulesPath == "" {
		req.RulesPath = r.config.RulesPath
	}

	ctx = logging.WithRunID(ctx, r.runID)
	ctx = logging.WithRuleFile(ctx, req.RulesPath)
	ctx = logging.WithDataFile(ctx, req.DataPath)

	ctx, span := r.tracer.Start(ctx, tracing.SpanCheck,
		trace.WithAttributes(tracing.CheckAttributes(r.runID, req.RulesPath, req.DataPath)...),
	)
	defer span.End()
	if id := tracing.TraceID(ctx); id != "" {
		ctx = logging.WithTraceID(ctx, id)
	}

	res, err := r.run(ctx, req)
	duration := time.Since(start)

	if err != nil {
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		r.metrics.RecordConfigError(req.RulesPath, err.Kind, duration)
		r.logger.ErrorContext(ctx, "check could not run",
			"kind", err.Kind,
			"error", err.Err,
		)

		rec := report.NewErrorRecord(r.runID, err)
		rec.RuleFile = req.RulesPath
		rec.DataFile = req.DataPath
		rec.Duration = duration
		r.record(ctx, rec)
		return nil, err
	}

	res.Duration = duration
	rep := res.Report
	tracing.SetCheckResult(span, rep.Passed(), res.Batch, res.Fields, len(rep.Failures()))
	tracing.SetStatus(span, nil)
	r.metrics.RecordCheck(req.RulesPath, rep.Passed(), duration, rep.Fields())

	if rep.Passed() {
		r.logger.InfoContext(ctx, "check passed",
			"fields", res.Fields,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		r.logger.InfoContext(ctx, "check failed",
			"fields", res.Fields,
			"failures", len(rep.Failures()),
			"report_kind", rep.Kind().String(),
			"duration_ms", duration.Milliseconds(),
		)
	}

	rec := report.NewRecord(r.runID, res.Batch, rep)
	rec.RuleFile = req.RulesPath
	rec.DataFile = req.DataPath
	rec.Duration = duration
	if r.record(ctx, rec) {
		res.RecordID = rec.ID
		span.SetAttributes(attribute.String(tracing.AttrReportID, rec.ID))
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, req Request) (*Result, *RunError) {
	fail := func(kind string, err error) (*Result, *RunError) {
		return nil, &RunError{Kind: kind, Request: req, Err: err}
	}

	f, err := r.load(ctx, req.RulesPath)
	if err != nil {
		return fail(KindParse, err)
	}
	if r.config.Strict {
		if err := ruleset.Lint(f, r.base); err != nil {
			return fail(KindLint, err)
		}
	}

	data, err := LoadData(req.DataPath)
	if err != nil {
		return fail(KindData, err)
	}

	v := r.base.Clone().Batch(!r.config.FailFast)
	f.Apply(v)

	if _, err := v.Check(data); err != nil {
		return fail(checkErrorKind(err), err)
	}

	return &Result{
		RunID:    r.runID,
		RuleFile: req.RulesPath,
		DataFile: req.DataPath,
		Batch:    v.IsBatch(),
		Fields:   len(f.Rules),
		Report:   v.Error(),
	}, nil
}

func (r *Runner) load(ctx context.Context, path string) (*ruleset.File, error) {
	_, span := r.tracer.Start(ctx, tracing.SpanLoad)
	defer span.End()

	f, err := ruleset.Load(path)
	tracing.SetError(span, err)
	tracing.SetStatus(span, err)
	return f, err
}

// record hands rec to the recorder and reports whether it was accepted.
func (r *Runner) record(ctx context.Context, rec *report.Record) bool {
	if r.recorder == nil {
		return false
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.WarnContext(ctx, "failed to record report",
			"record_id", rec.ID,
			"error", err,
		)
		return false
	}
	return true
}

// Lint loads the rule file at path and reports every unknown rule and bad
// pattern with its location. An empty path uses the configured default.
func (r *Runner) Lint(path string) (*ruleset.File, error) {
	if path == "" {
		path = r.config.RulesPath
	}
	f, err := ruleset.Load(path)
	if err != nil {
		return nil, err
	}
	return f, ruleset.Lint(f, r.base)
}

func checkErrorKind(err error) string {
	var pe *validate.PatternError
	switch {
	case errors.Is(err, validate.ErrUnknownRule):
		return KindUnknownRule
	case errors.As(err, &pe):
		return KindBadPattern
	default:
		return KindCheck
	}
}
