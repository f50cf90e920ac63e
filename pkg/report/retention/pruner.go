package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/export"
)

// Pruner enforces the retention period on a report store.
type Pruner struct {
	storage   report.Storage
	config    *config.RetentionConfig
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
	onPrune   func(deleted int64)
}

// NewPruner creates a pruner for storage.
func NewPruner(storage report.Storage, cfg *config.RetentionConfig) *Pruner {
	if cfg == nil {
		cfg = &config.RetentionConfig{}
	}
	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "report.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// OnPrune registers fn to receive the number of records deleted by every
// successful prune.
func (p *Pruner) OnPrune(fn func(deleted int64)) {
	p.onPrune = fn
}

// Cutoff returns the time before which records are pruned.
func (p *Pruner) Cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.config.Days)
}

// Prune deletes records older than the retention period and returns how
// many were deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.Days <= 0 {
		p.logger.Debug("retention disabled, nothing pruned")
		return 0, nil
	}

	cutoff := p.Cutoff()
	p.logger.Debug("pruning reports", "cutoff_time", cutoff, "retention_days", p.config.Days)

	if p.config.ArchivePath != "" {
		if err := p.archive(ctx, cutoff); err != nil {
			return 0, report.NewRetentionError(p.config.Days, err)
		}
	}

	deleted, err := p.storage.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, report.NewRetentionError(p.config.Days, err)
	}

	if deleted > 0 {
		p.logger.Info("pruned reports", "deleted_count", deleted, "retention_days", p.config.Days)
	} else {
		p.logger.Debug("no reports pruned", "retention_days", p.config.Days)
	}
	if p.onPrune != nil {
		p.onPrune(deleted)
	}
	return deleted, nil
}

// archive writes every record older than cutoff to a JSON file.
func (p *Pruner) archive(ctx context.Context, cutoff time.Time) error {
	end := cutoff.Add(-time.Nanosecond)
	var records []*report.Record
	for offset := 0; ; offset += report.MaxLimit {
		page, err := p.storage.Query(ctx, &report.Query{
			End:       &end,
			Limit:     report.MaxLimit,
			Offset:    offset,
			SortOrder: report.SortAsc,
		})
		if err != nil {
			return fmt.Errorf("failed to query reports for archiving: %w", err)
		}
		records = append(records, page...)
		if len(page) < report.MaxLimit {
			break
		}
	}

	if len(records) == 0 {
		p.logger.Debug("no reports to archive")
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	name := filepath.Join(p.config.ArchivePath,
		fmt.Sprintf("reports-%s.json", p.now().UTC().Format("2006-01-02-150405")))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	if err := export.NewJSONExporter(true).Export(ctx, records, f); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	p.logger.Info("reports archived", "archive_file", name, "record_count", len(records))
	return nil
}

// Start runs Prune on the configured schedule until ctx is done or Stop is
// called.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled prune, or nil when not scheduled.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
