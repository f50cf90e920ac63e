// Package storage provides report.Storage backends.
//
// MemoryStorage keeps records in a map and is meant for tests and for
// one-shot commands that do not need history. SQLiteStorage persists
// records in a single SQLite file and works with either the pure-Go
// modernc.org/sqlite driver ("sqlite") or the cgo mattn/go-sqlite3 driver
// ("sqlite3").
//
// New builds the backend selected in config.ReportsConfig:
//
//	store, err := storage.New(&cfg.Reports)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
