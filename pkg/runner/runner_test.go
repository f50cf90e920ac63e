package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/recorder"
	"mercator-hq/verity/pkg/report/storage"
	"mercator-hq/verity/pkg/ruleset"
	"mercator-hq/verity/pkg/telemetry/logging"
	"mercator-hq/verity/pkg/telemetry/metrics"
	"mercator-hq/verity/pkg/telemetry/tracing"
	"mercator-hq/verity/pkg/validate"
)

const signupRules = `rules:
  name: require
  age: number|between:1,120
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	return logger, &buf
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	good := writeFile(t, dir, "good.json", `{"name": "ada", "age": 36}`)
	bad := writeFile(t, dir, "bad.json", `{"name": "", "age": 200}`)

	tests := []struct {
		name         string
		failFast     bool
		data         string
		wantPassed   bool
		wantKind     validate.ReportKind
		wantFailures []string
	}{
		{
			name:       "passes",
			data:       good,
			wantPassed: true,
			wantKind:   validate.ReportSuccess,
		},
		{
			name:         "batch collects every failure",
			data:         bad,
			wantKind:     validate.ReportBatch,
			wantFailures: []string{"name", "age"},
		},
		{
			name:         "fail fast stops at first failure",
			failFast:     true,
			data:         bad,
			wantKind:     validate.ReportSingle,
			wantFailures: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testLogger(t)
			r := New(&config.ValidationConfig{FailFast: tt.failFast}, WithLogger(logger))

			res, err := r.Run(context.Background(), Request{RulesPath: rules, DataPath: tt.data})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Passed() != tt.wantPassed {
				t.Errorf("Passed() = %v, want %v", res.Passed(), tt.wantPassed)
			}
			if res.Report.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", res.Report.Kind(), tt.wantKind)
			}
			if got := strings.Join(res.Report.Fields(), ","); got != strings.Join(tt.wantFailures, ",") {
				t.Errorf("failed fields = %q, want %q", got, strings.Join(tt.wantFailures, ","))
			}
			if res.Fields != 2 {
				t.Errorf("Fields = %d, want 2", res.Fields)
			}
			if res.RunID != r.RunID() {
				t.Errorf("RunID = %q, want %q", res.RunID, r.RunID())
			}
		})
	}
}

func TestRunner_DefaultMessages(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	data := writeFile(t, dir, "bad.yaml", "name: \"\"\nage: 200\n")

	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger))
	res, err := r.Run(context.Background(), Request{RulesPath: rules, DataPath: data})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if msg, _ := res.Report.Get("name"); msg != "require name" {
		t.Errorf("name message = %q, want %q", msg, "require name")
	}
	if msg, _ := res.Report.Get("age"); msg != "between age" {
		t.Errorf("age message = %q, want %q", msg, "between age")
	}
}

func TestRunner_DefaultRulesPath(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	data := writeFile(t, dir, "good.json", `{"name": "ada", "age": 36}`)

	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{RulesPath: rules}, WithLogger(logger))
	res, err := r.Run(context.Background(), Request{DataPath: data})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.RuleFile != rules {
		t.Errorf("RuleFile = %q, want %q", res.RuleFile, rules)
	}
}

func TestRunner_BaseValidator(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "rules:\n  code: sku\n")
	data := writeFile(t, dir, "item.json", `{"code": "AB-1234"}`)

	base := validate.New().Regex("sku", `^[A-Z]{2}-\d{4}$`)
	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger), WithValidator(base))

	res, err := r.Run(context.Background(), Request{RulesPath: rules, DataPath: data})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Passed() {
		t.Errorf("Passed() = false, report = %s", res.Report)
	}
	if len(base.RuleSet()) != 0 {
		t.Error("base validator was mutated by Run")
	}
}

func TestRunner_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"name": "ada"}`)

	tests := []struct {
		name     string
		strict   bool
		rules    string
		dataPath string
		wantKind string
	}{
		{
			name:     "missing rules key",
			rules:    "batch: true\n",
			dataPath: good,
			wantKind: KindParse,
		},
		{
			name:     "unknown rule",
			rules:    "rules:\n  name: requird\n",
			dataPath: good,
			wantKind: KindUnknownRule,
		},
		{
			name:     "bad pattern",
			rules:    "regex:\n  broken: '(['\nrules:\n  name: broken\n",
			dataPath: good,
			wantKind: KindBadPattern,
		},
		{
			name:     "strict lint",
			strict:   true,
			rules:    "rules:\n  name: requird\n",
			dataPath: good,
			wantKind: KindLint,
		},
		{
			name:     "bad data extension",
			rules:    signupRules,
			dataPath: filepath.Join(dir, "data.txt"),
			wantKind: KindData,
		},
		{
			name:     "missing data file",
			rules:    signupRules,
			dataPath: filepath.Join(dir, "missing.json"),
			wantKind: KindData,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := writeFile(t, dir, "rules"+string(rune('a'+i))+".yaml", tt.rules)

			logger, _ := testLogger(t)
			r := New(&config.ValidationConfig{Strict: tt.strict}, WithLogger(logger))
			res, err := r.Run(context.Background(), Request{RulesPath: rules, DataPath: tt.dataPath})
			if err == nil {
				t.Fatalf("Run() = %+v, want error", res)
			}

			var runErr *RunError
			if !errors.As(err, &runErr) {
				t.Fatalf("Run() error type = %T, want *RunError", err)
			}
			if runErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q (err: %v)", runErr.Kind, tt.wantKind, err)
			}
		})
	}
}

func TestRunner_ErrorUnwrap(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "rules:\n  name: requird\n")
	data := writeFile(t, dir, "good.json", `{"name": "ada"}`)

	logger, _ := testLogger(t)
	_, err := New(&config.ValidationConfig{}, WithLogger(logger)).
		Run(context.Background(), Request{RulesPath: rules, DataPath: data})

	if !errors.Is(err, validate.ErrUnknownRule) {
		t.Errorf("errors.Is(err, ErrUnknownRule) = false, err = %v", err)
	}
	var ure *validate.UnknownRuleError
	if !errors.As(err, &ure) || ure.Suggestion == "" {
		t.Errorf("UnknownRuleError = %+v, want a suggestion", ure)
	}
}

func TestRunner_Records(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	good := writeFile(t, dir, "good.json", `{"name": "ada", "age": 36}`)
	bad := writeFile(t, dir, "bad.json", `{"name": "", "age": 200}`)
	broken := writeFile(t, dir, "broken.txt", "")

	store := storage.NewMemoryStorage()
	rec := recorder.New(store, nil)
	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger), WithRecorder(rec), WithRunID("run-1"))

	ctx := context.Background()
	res, err := r.Run(ctx, Request{RulesPath: rules, DataPath: good})
	if err != nil {
		t.Fatalf("Run(good) error = %v", err)
	}
	if res.RecordID == "" {
		t.Error("RecordID is empty with a recorder configured")
	}
	if _, err := r.Run(ctx, Request{RulesPath: rules, DataPath: bad}); err != nil {
		t.Fatalf("Run(bad) error = %v", err)
	}
	if _, err := r.Run(ctx, Request{RulesPath: rules, DataPath: broken}); err == nil {
		t.Fatal("Run(broken) expected error")
	}
	rec.Close()

	records, err := store.Query(ctx, &report.Query{RunID: "run-1", SortOrder: report.SortAsc})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("stored %d records, want 3", len(records))
	}

	counts := map[string]int{}
	for _, record := range records {
		counts[record.Status()]++
		if record.RuleFile != rules {
			t.Errorf("record %s RuleFile = %q, want %q", record.ID, record.RuleFile, rules)
		}
	}
	want := map[string]int{report.StatusPassed: 1, report.StatusFailed: 1, report.StatusError: 1}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("%s records = %d, want %d", status, counts[status], n)
		}
	}

	stored, err := store.Get(ctx, res.RecordID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !stored.Passed || stored.DataFile != good {
		t.Errorf("stored record = %+v", stored)
	}
}

func TestRunner_Metrics(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	bad := writeFile(t, dir, "bad.json", `{"name": "", "age": 200}`)
	broken := writeFile(t, dir, "broken.txt", "")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, registry)
	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger), WithMetrics(collector))

	r.Run(context.Background(), Request{RulesPath: rules, DataPath: bad})
	r.Run(context.Background(), Request{RulesPath: rules, DataPath: broken})

	if got, err := testutil.GatherAndCount(registry, "verity_checks_total"); err != nil || got != 2 {
		t.Errorf("checks_total series = %d (err %v), want 2", got, err)
	}
	if got, err := testutil.GatherAndCount(registry, "verity_field_failures_total"); err != nil || got != 2 {
		t.Errorf("field_failures_total series = %d (err %v), want 2", got, err)
	}
	if got, err := testutil.GatherAndCount(registry, "verity_config_errors_total"); err != nil || got != 1 {
		t.Errorf("config_errors_total series = %d (err %v), want 1", got, err)
	}
}

func TestRunner_Tracing(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", signupRules)
	bad := writeFile(t, dir, "bad.json", `{"name": "", "age": 200}`)

	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{
		Enabled:     true,
		Sampler:     tracing.SamplerAlways,
		SampleRatio: 1.0,
		ServiceName: "verity-test",
	}, "test", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	defer tracer.Shutdown(context.Background())

	logger, buf := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger), WithTracer(tracer))
	if _, err := r.Run(context.Background(), Request{RulesPath: rules, DataPath: bad}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	tracer.ForceFlush(context.Background())

	var check *tracetest.SpanStub
	spans := exporter.GetSpans()
	for i := range spans {
		if spans[i].Name == tracing.SpanCheck {
			check = &spans[i]
		}
	}
	if check == nil {
		t.Fatalf("no %s span in %d exported spans", tracing.SpanCheck, len(spans))
	}

	attrs := make(map[string]any)
	for _, kv := range check.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs[tracing.AttrPassed] != false {
		t.Errorf("%s = %v, want false", tracing.AttrPassed, attrs[tracing.AttrPassed])
	}
	if attrs[tracing.AttrFailures] != int64(2) {
		t.Errorf("%s = %v, want 2", tracing.AttrFailures, attrs[tracing.AttrFailures])
	}

	if !strings.Contains(buf.String(), `"trace_id"`) {
		t.Errorf("log output has no trace_id: %s", buf.String())
	}
}

func TestRunner_Lint(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "rules:\n  name: require|requird\n  age: number\n")

	logger, _ := testLogger(t)
	r := New(&config.ValidationConfig{}, WithLogger(logger))

	f, err := r.Lint(rules)
	if err == nil {
		t.Fatal("Lint() expected error")
	}
	if f == nil || len(f.Rules) != 2 {
		t.Errorf("Lint() file = %+v, want the parsed file", f)
	}

	var list *ruleset.ErrorList
	if !errors.As(err, &list) || len(list.Errors) != 1 {
		t.Fatalf("Lint() error = %v, want one located error", err)
	}
	if line := list.Errors[0].Location.Line; line != 2 {
		t.Errorf("error line = %d, want 2", line)
	}

	if _, err := r.Lint(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Lint(missing) expected error")
	}
}
