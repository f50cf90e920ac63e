package retention

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
	"mercator-hq/verity/pkg/report/storage"
)

var now = time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC)

func seedAges(t *testing.T, s report.Storage, ages map[string]int) {
	t.Helper()
	for id, days := range ages {
		rec := &report.Record{
			ID:        id,
			RuleFile:  "rules.yaml",
			Passed:    true,
			CheckedAt: now.AddDate(0, 0, -days),
		}
		if err := s.Store(context.Background(), rec); err != nil {
			t.Fatalf("Store(%s) error = %v", id, err)
		}
	}
}

func newTestPruner(s report.Storage, cfg *config.RetentionConfig) *Pruner {
	p := NewPruner(s, cfg)
	p.now = func() time.Time { return now }
	return p
}

func TestPruner_Prune(t *testing.T) {
	tests := []struct {
		name        string
		days        int
		wantDeleted int64
		wantLeft    int
	}{
		{"disabled", 0, 0, 4},
		{"thirty days", 30, 2, 2},
		{"seven days", 7, 3, 1},
		{"one year", 365, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStorage()
			seedAges(t, s, map[string]int{"new": 1, "week": 10, "month": 45, "old": 100})

			var hooked int64 = -1
			p := newTestPruner(s, &config.RetentionConfig{Days: tt.days})
			p.OnPrune(func(n int64) { hooked = n })

			deleted, err := p.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}
			if s.Size() != tt.wantLeft {
				t.Errorf("left = %d, want %d", s.Size(), tt.wantLeft)
			}
			if tt.days > 0 && hooked != tt.wantDeleted {
				t.Errorf("OnPrune got %d, want %d", hooked, tt.wantDeleted)
			}
			if tt.days == 0 && hooked != -1 {
				t.Error("OnPrune called while retention is disabled")
			}
		})
	}
}

func TestPruner_Archive(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedAges(t, s, map[string]int{"new": 1, "month": 45, "old": 100})

	dir := filepath.Join(t.TempDir(), "archive")
	p := newTestPruner(s, &config.RetentionConfig{Days: 30, ArchivePath: dir})

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("archive dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("archive files = %d, want 1", len(entries))
	}
	if want := "reports-2026-06-15-030000.json"; entries[0].Name() != want {
		t.Errorf("archive name = %s, want %s", entries[0].Name(), want)
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var archived []report.Record
	if err := json.Unmarshal(data, &archived); err != nil {
		t.Fatalf("archive is not JSON: %v", err)
	}
	if len(archived) != 2 || archived[0].ID != "old" || archived[1].ID != "month" {
		t.Errorf("archived = %+v, want old, month", archived)
	}
}

func TestPruner_NoArchiveWhenNothingToPrune(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedAges(t, s, map[string]int{"new": 1})

	dir := filepath.Join(t.TempDir(), "archive")
	p := newTestPruner(s, &config.RetentionConfig{Days: 30, ArchivePath: dir})
	if _, err := p.Prune(context.Background()); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("archive dir created with nothing to archive")
	}
}

func TestPruner_Cutoff(t *testing.T) {
	p := newTestPruner(storage.NewMemoryStorage(), &config.RetentionConfig{Days: 10})
	if want := now.AddDate(0, 0, -10); !p.Cutoff().Equal(want) {
		t.Errorf("Cutoff() = %v, want %v", p.Cutoff(), want)
	}
}
