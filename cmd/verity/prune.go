package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/retention"
	"mercator-hq/verity/pkg/report/storage"
)

var pruneFlags struct {
	days    int
	archive string
	dryRun  bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored results older than the retention period",
	Long: `Delete stored check results older than the retention period.

The period defaults to reports.retention.days. With an archive directory,
the pruned results are first written there as a JSON file.

Examples:
  # Apply the configured retention
  verity prune

  # Keep 30 days, archiving what is removed
  verity prune --days 30 --archive archive/

  # Show how many results would be removed
  verity prune --days 30 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pruneReports(commandContext(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.days, "days", 0, "retention period in days (default: reports.retention.days)")
	pruneCmd.Flags().StringVar(&pruneFlags.archive, "archive", "", "archive directory (default: reports.retention.archive_path)")
	pruneCmd.Flags().BoolVar(&pruneFlags.dryRun, "dry-run", false, "count without deleting")
}

func pruneReports(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	retentionCfg := cfg.Reports.Retention
	if pruneFlags.days > 0 {
		retentionCfg.Days = pruneFlags.days
	}
	if pruneFlags.archive != "" {
		retentionCfg.ArchivePath = pruneFlags.archive
	}
	if retentionCfg.Days <= 0 {
		return cli.NewConfigError("reports.retention.days", "no retention period set (use --days)")
	}

	store, err := storage.New(&cfg.Reports)
	if err != nil {
		return cli.NewCommandError("prune", fmt.Errorf("failed to open report storage: %w", err))
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retentionCfg)
	cutoff := pruner.Cutoff()

	if pruneFlags.dryRun {
		end := cutoff.Add(-time.Nanosecond)
		n, err := store.Count(ctx, &report.Query{End: &end})
		if err != nil {
			return cli.NewCommandError("prune", err)
		}
		fmt.Fprintf(out, "Would prune %d result(s) checked before %s\n", n, cutoff.Format(time.RFC3339))
		return nil
	}

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	fmt.Fprintf(out, "Pruned %d result(s) checked before %s\n", deleted, cutoff.Format(time.RFC3339))
	if retentionCfg.ArchivePath != "" && deleted > 0 {
		fmt.Fprintf(out, "Archived to %s\n", retentionCfg.ArchivePath)
	}
	return nil
}
