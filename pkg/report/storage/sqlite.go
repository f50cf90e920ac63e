package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
)

// Driver names registered by the imported SQLite drivers.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

const backendName = "sqlite"

// SQLiteStorage implements report.Storage on a SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	config *config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path and
// migrates the schema.
func NewSQLiteStorage(cfg *config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg == nil {
		return nil, report.NewStorageError(backendName, "open", errors.New("sqlite config is nil"))
	}
	if cfg.Path == "" {
		return nil, report.NewStorageError(backendName, "open", errors.New("database path is empty"))
	}

	logger := slog.Default().With("component", "report.storage.sqlite")

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, report.NewStorageError(backendName, "mkdir", err)
			}
		}
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverModernc
	}
	dsn, err := buildDSN(driver, cfg)
	if err != nil {
		return nil, report.NewStorageError(backendName, "open", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, report.NewStorageError(backendName, "open", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	s := &SQLiteStorage{db: db, config: cfg, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", cfg.Path,
		"driver", driver,
		"journal_mode", cfg.JournalMode,
	)
	return s, nil
}

// buildDSN encodes the journal mode and busy timeout as connection
// parameters so every pooled connection gets them.
func buildDSN(driver string, cfg *config.SQLiteConfig) (string, error) {
	params := url.Values{}
	busy := cfg.BusyTimeout.Milliseconds()
	mode := strings.ToUpper(cfg.JournalMode)

	switch driver {
	case DriverModernc:
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
		if mode != "" {
			params.Add("_pragma", fmt.Sprintf("journal_mode(%s)", mode))
		}
	case DriverMattn:
		params.Set("_busy_timeout", fmt.Sprint(busy))
		if mode != "" {
			params.Set("_journal_mode", mode)
		}
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	return "file:" + cfg.Path + "?" + params.Encode(), nil
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return report.NewStorageError(backendName, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return report.NewStorageError(backendName, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return report.NewStorageError(backendName, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return report.NewStorageError(backendName, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store inserts rec, replacing any record with the same ID.
func (s *SQLiteStorage) Store(ctx context.Context, rec *report.Record) error {
	var failures any
	if len(rec.Failures) > 0 {
		data, err := json.Marshal(rec.Failures)
		if err != nil {
			return report.NewStorageError(backendName, "store", err)
		}
		failures = string(data)
	}

	var errVal any
	if rec.Error != "" {
		errVal = rec.Error
	}

	_, err := s.db.ExecContext(ctx, insertReport,
		rec.ID, rec.RunID, rec.RuleFile, rec.DataFile,
		boolToInt(rec.Passed), boolToInt(rec.Batch), failures, len(rec.Failures), errVal,
		rec.CheckedAt.UnixNano(), int64(rec.Duration),
	)
	if err != nil {
		return report.NewStorageError(backendName, "store", err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*report.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM reports WHERE id = ?", id)
	if err != nil {
		return nil, report.NewStorageError(backendName, "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, report.NewStorageError(backendName, "get", err)
		}
		return nil, report.ErrNotFound
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, report.NewStorageError(backendName, "scan", err)
	}
	return rec, nil
}

// Query returns records matching q.
func (s *SQLiteStorage) Query(ctx context.Context, q *report.Query) ([]*report.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	query := q.WithDefaults()

	where, args := buildWhereClause(&query)
	stmt := "SELECT " + selectColumns + " FROM reports"
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += fmt.Sprintf(" ORDER BY checked_at %s, id %s LIMIT ? OFFSET ?",
		strings.ToUpper(query.SortOrder), strings.ToUpper(query.SortOrder))
	args = append(args, query.Limit, query.Offset)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, report.NewStorageError(backendName, "query", err)
	}
	defer rows.Close()

	records := []*report.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, report.NewStorageError(backendName, "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, report.NewStorageError(backendName, "query", err)
	}
	return records, nil
}

// Count returns the number of records matching q.
func (s *SQLiteStorage) Count(ctx context.Context, q *report.Query) (int64, error) {
	where, args := buildWhereClause(q)
	stmt := "SELECT COUNT(*) FROM reports"
	if where != "" {
		stmt += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, report.NewStorageError(backendName, "count", err)
	}
	return count, nil
}

// DeleteBefore removes records checked before cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE checked_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, report.NewStorageError(backendName, "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, report.NewStorageError(backendName, "delete", err)
	}
	return count, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return report.NewStorageError(backendName, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return report.NewStorageError(backendName, "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause returns the WHERE conditions for q (without the
// keyword) and their arguments.
func buildWhereClause(q *report.Query) (string, []any) {
	var conditions []string
	var args []any

	if q.Start != nil {
		conditions = append(conditions, "checked_at >= ?")
		args = append(args, q.Start.UnixNano())
	}
	if q.End != nil {
		conditions = append(conditions, "checked_at <= ?")
		args = append(args, q.End.UnixNano())
	}
	if q.Passed != nil {
		conditions = append(conditions, "passed = ?")
		args = append(args, boolToInt(*q.Passed))
	}
	if q.RuleFile != "" {
		conditions = append(conditions, "rule_file = ?")
		args = append(args, q.RuleFile)
	}
	if q.DataFile != "" {
		conditions = append(conditions, "data_file = ?")
		args = append(args, q.DataFile)
	}
	if q.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, q.RunID)
	}
	switch q.Status {
	case report.StatusPassed:
		conditions = append(conditions, "error IS NULL AND passed = 1")
	case report.StatusFailed:
		conditions = append(conditions, "error IS NULL AND passed = 0")
	case report.StatusError:
		conditions = append(conditions, "error IS NOT NULL")
	}

	return strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*report.Record, error) {
	var rec report.Record
	var passed, batch, checkedAt, duration int64
	var failures, errVal sql.NullString

	err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.RuleFile, &rec.DataFile,
		&passed, &batch, &failures, &errVal,
		&checkedAt, &duration,
	)
	if err != nil {
		return nil, err
	}

	rec.Passed = passed != 0
	rec.Batch = batch != 0
	rec.CheckedAt = time.Unix(0, checkedAt).UTC()
	rec.Duration = time.Duration(duration)
	if errVal.Valid {
		rec.Error = errVal.String
	}
	if failures.Valid && failures.String != "" {
		if err := json.Unmarshal([]byte(failures.String), &rec.Failures); err != nil {
			return nil, fmt.Errorf("decode failures of %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
