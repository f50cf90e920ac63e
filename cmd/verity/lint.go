package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/ruleset"
	"mercator-hq/verity/pkg/runner"
)

var lintFlags struct {
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [rule files...]",
	Short: "Validate rule files",
	Long: `Validate rule files without checking any data.

The lint command parses each rule file and reports, with file, line and
column:
  - YAML syntax errors
  - Unknown top-level keys and malformed rule entries
  - Rules that resolve to no builtin, named rule, regex or alias
  - Regular expressions that do not compile

Examples:
  # Lint the configured rule file
  verity lint

  # Lint several files
  verity lint signup.yaml orders.yaml

  # JSON output for CI/CD
  verity lint --format json signup.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return lintRules(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult represents the lint result for a single rule file.
type LintResult struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Fields int         `json:"fields"`
	Errors []LintIssue `json:"errors,omitempty"`
}

// LintIssue represents a single problem in a rule file.
type LintIssue struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func lintRules(out io.Writer, files []string) error {
	format, err := cli.ParseFormat(lintFlags.format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		files = []string{cfg.Validation.RulesPath}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	r := runner.New(&cfg.Validation, runner.WithLogger(logger))

	results := make([]LintResult, 0, len(files))
	problems := 0
	for _, file := range files {
		result := lintFile(r, file)
		problems += len(result.Errors)
		results = append(results, result)
	}

	if format == cli.FormatJSON {
		if err := cli.NewFormatter(format).FormatTo(out, results); err != nil {
			return err
		}
	} else {
		writeLintText(out, results, problems)
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) in %d file(s): %w", problems, len(files), cli.ErrChecksFailed)
	}
	return nil
}

func lintFile(r *runner.Runner, path string) LintResult {
	result := LintResult{File: path, Valid: true}

	f, err := r.Lint(path)
	if f != nil {
		result.Fields = len(f.Rules)
	}
	if err == nil {
		return result
	}

	result.Valid = false
	var list *ruleset.ErrorList
	var single *ruleset.ParseError
	switch {
	case errors.As(err, &list):
		for _, pe := range list.Errors {
			result.Errors = append(result.Errors, newLintIssue(pe))
		}
	case errors.As(err, &single):
		result.Errors = append(result.Errors, newLintIssue(single))
	default:
		result.Errors = append(result.Errors, LintIssue{Message: err.Error()})
	}
	return result
}

func newLintIssue(pe *ruleset.ParseError) LintIssue {
	return LintIssue{
		Line:       pe.Location.Line,
		Column:     pe.Location.Column,
		Type:       string(pe.Type),
		Message:    pe.Message,
		Suggestion: pe.Suggestion,
	}
}

func writeLintText(w io.Writer, results []LintResult, problems int) {
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(w, "✓ %s (%d fields)\n", result.File, result.Fields)
			continue
		}

		fmt.Fprintf(w, "✗ %s\n", result.File)
		for _, issue := range result.Errors {
			fmt.Fprintf(w, "    %s", issue.Message)
			if issue.Line > 0 {
				fmt.Fprintf(w, " (line %d, col %d)", issue.Line, issue.Column)
			}
			if issue.Type != "" {
				fmt.Fprintf(w, " [%s]", issue.Type)
			}
			fmt.Fprintln(w)
			if issue.Suggestion != "" {
				fmt.Fprintf(w, "      %s\n", issue.Suggestion)
			}
		}
	}
	fmt.Fprintf(w, "\n%d file(s), %d problem(s)\n", len(results), problems)
}
