package storage

import (
	"fmt"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// New creates the storage backend named by cfg.Backend.
func New(cfg *config.ReportsConfig) (report.Storage, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendSQLite, "":
		return NewSQLiteStorage(&cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown report backend %q", cfg.Backend)
	}
}
