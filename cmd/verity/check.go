package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/runner"
	"mercator-hq/verity/pkg/validate"
)

var checkFlags struct {
	rules    string
	failFast bool
	strict   bool
	format   string
	noRecord bool
}

var checkCmd = &cobra.Command{
	Use:   "check [data files...]",
	Short: "Check data files against a rule file",
	Long: `Check one or more JSON or YAML data files against a rule file.

Every failing field is reported unless --fail-fast is set, in which case
only the first failing field of each file is. A rule file may override this
with its own "batch" key.

Exit status is 0 when every file passes, 1 when any file fails and 2 when a
rule file or data file could not be used.

Examples:
  # Check with the configured rule file
  verity check user.json

  # Check several files against a specific rule file
  verity check --rules signup.yaml alice.json bob.yaml

  # Refuse rule files with unknown rules before checking
  verity check --strict --rules signup.yaml alice.json

  # JSON output for CI/CD
  verity check --format json user.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(commandContext(cmd), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.rules, "rules", "r", "", "rule file (default: validation.rules_path)")
	checkCmd.Flags().BoolVar(&checkFlags.failFast, "fail-fast", false, "stop each file at the first failing field")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "lint the rule file before checking")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.noRecord, "no-record", false, "do not store results even when reports are enabled")
}

// CheckResult is the outcome of checking one data file.
type CheckResult struct {
	File       string             `json:"file"`
	Status     string             `json:"status"`
	ReportKind string             `json:"report_kind,omitempty"`
	Failures   []validate.Failure `json:"failures,omitempty"`
	Error      string             `json:"error,omitempty"`
	ErrorKind  string             `json:"error_kind,omitempty"`
	DurationMS float64            `json:"duration_ms"`
}

// CheckSummary is the outcome of one check command.
type CheckSummary struct {
	RunID   string        `json:"run_id"`
	Rules   string        `json:"rules"`
	Results []CheckResult `json:"results"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Errors  int           `json:"errors"`
}

func runCheck(ctx context.Context, out io.Writer, files []string) error {
	format, err := cli.ParseFormat(checkFlags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	validation := cfg.Validation
	if checkFlags.rules != "" {
		validation.RulesPath = checkFlags.rules
	}
	if checkFlags.failFast {
		validation.FailFast = true
	}
	if checkFlags.strict {
		validation.Strict = true
	}

	svc, err := newServices(cfg, cfg.Reports.Enabled && !checkFlags.noRecord)
	if err != nil {
		return err
	}
	defer svc.Close()

	r := svc.runner(&validation)
	summary := CheckSummary{RunID: r.RunID(), Rules: validation.RulesPath}

	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		start := time.Now()
		res, err := r.Run(ctx, runner.Request{RulesPath: validation.RulesPath, DataPath: file})
		result := newCheckResult(file, res, err, time.Since(start))

		switch result.Status {
		case statusPassed:
			summary.Passed++
		case statusFailed:
			summary.Failed++
		default:
			summary.Errors++
		}
		summary.Results = append(summary.Results, result)
	}

	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(out, summary); err != nil {
			return err
		}
	} else {
		writeCheckText(out, summary)
	}

	total := len(files)
	switch {
	case summary.Errors > 0:
		return cli.NewCommandError("check", fmt.Errorf("%d of %d files could not be checked", summary.Errors, total))
	case summary.Failed > 0:
		return fmt.Errorf("%d of %d files: %w", summary.Failed, total, cli.ErrChecksFailed)
	}
	return nil
}

const (
	statusPassed = "passed"
	statusFailed = "failed"
	statusError  = "error"
)

func newCheckResult(file string, res *runner.Result, err error, elapsed time.Duration) CheckResult {
	result := CheckResult{
		File:       file,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	}

	if err != nil {
		result.Status = statusError
		result.Error = err.Error()
		var runErr *runner.RunError
		if errors.As(err, &runErr) {
			result.ErrorKind = runErr.Kind
			result.Error = runErr.Err.Error()
		}
		return result
	}

	result.Status = statusPassed
	if !res.Passed() {
		result.Status = statusFailed
		result.ReportKind = res.Report.Kind().String()
		result.Failures = res.Report.Failures()
	}
	return result
}

func writeCheckText(w io.Writer, s CheckSummary) {
	for _, r := range s.Results {
		switch r.Status {
		case statusPassed:
			fmt.Fprintf(w, "✓ %s\n", r.File)
		case statusFailed:
			fmt.Fprintf(w, "✗ %s\n", r.File)
			for _, f := range r.Failures {
				fmt.Fprintf(w, "    %s: %s\n", f.Field, f.Message)
			}
		default:
			fmt.Fprintf(w, "! %s: %s", r.File, r.Error)
			if r.ErrorKind != "" {
				fmt.Fprintf(w, " [%s]", r.ErrorKind)
			}
			fmt.Fprintln(w)
		}
	}

	parts := []string{fmt.Sprintf("%d passed", s.Passed), fmt.Sprintf("%d failed", s.Failed)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", s.Errors))
	}
	fmt.Fprintf(w, "\n%d file(s) checked against %s: %s\n", len(s.Results), s.Rules, strings.Join(parts, ", "))
}
