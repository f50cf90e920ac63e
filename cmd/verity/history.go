package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/export"
	"mercator-hq/verity/pkg/report/storage"
)

var historyFlags struct {
	status string
	rules  string
	data   string
	runID  string
	since  time.Duration
	limit  int
	offset int
	asc    bool
	format string
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query stored check results",
	Long: `Query check results stored by "verity check" and "verity watch".

Results are stored only when reports.enabled is set in the configuration.

Examples:
  # Last 100 results, newest first
  verity history

  # Failures of one rule file in the last day
  verity history --status failed --rules signup.yaml --since 24h

  # Every result of one run as CSV
  verity history --run 5f0c... --format csv --output run.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return queryHistory(commandContext(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status: passed, failed, error")
	historyCmd.Flags().StringVar(&historyFlags.rules, "rules", "", "filter by rule file")
	historyCmd.Flags().StringVar(&historyFlags.data, "data", "", "filter by data file")
	historyCmd.Flags().StringVar(&historyFlags.runID, "run", "", "filter by run ID")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only results newer than this (e.g. 24h)")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", report.DefaultLimit, "max results")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyCmd.Flags().BoolVar(&historyFlags.asc, "asc", false, "oldest first")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")
}

func queryHistory(ctx context.Context, out io.Writer) error {
	format, err := cli.ParseFormat(historyFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatCSV)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.New(&cfg.Reports)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("failed to open report storage: %w", err))
	}
	defer store.Close()

	query := &report.Query{
		RuleFile:  historyFlags.rules,
		DataFile:  historyFlags.data,
		RunID:     historyFlags.runID,
		Status:    historyFlags.status,
		Limit:     historyFlags.limit,
		Offset:    historyFlags.offset,
		SortOrder: report.SortDesc,
	}
	if historyFlags.asc {
		query.SortOrder = report.SortAsc
	}
	if historyFlags.since > 0 {
		start := time.Now().Add(-historyFlags.since)
		query.Start = &start
	}
	if err := query.Validate(); err != nil {
		return err
	}

	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	if historyFlags.output != "" {
		f, err := os.Create(historyFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format != cli.FormatText {
		exporter, err := export.ForFormat(string(format))
		if err != nil {
			return err
		}
		return exporter.Export(ctx, records, out)
	}

	total, err := store.Count(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("count failed: %w", err))
	}
	return writeHistoryText(out, records, total)
}

func writeHistoryText(w io.Writer, records []*report.Record, total int64) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECKED\tSTATUS\tRULES\tDATA\tFAILURES\tID")
	for _, rec := range records {
		detail := fmt.Sprintf("%d", len(rec.Failures))
		if rec.Error != "" {
			detail = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CheckedAt.Local().Format(time.DateTime),
			rec.Status(),
			rec.RuleFile,
			rec.DataFile,
			detail,
			shortID(rec.ID),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nShowing %d of %d result(s)\n", len(records), total)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
