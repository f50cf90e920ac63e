package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the report tables. Times are stored as Unix nanoseconds
// so both drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,

    -- Inputs
    rule_file TEXT NOT NULL,
    data_file TEXT NOT NULL,

    -- Outcome
    passed INTEGER NOT NULL,
    batch INTEGER NOT NULL,
    failures TEXT,
    failure_count INTEGER NOT NULL DEFAULT 0,
    error TEXT,

    -- Timing
    checked_at INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_checked_at ON reports(checked_at);
CREATE INDEX IF NOT EXISTS idx_reports_rule_file ON reports(rule_file);
CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports(run_id);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion reads the newest schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertReport = `
INSERT INTO reports (
    id, run_id, rule_file, data_file,
    passed, batch, failures, failure_count, error,
    checked_at, duration_ns
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    run_id = excluded.run_id,
    rule_file = excluded.rule_file,
    data_file = excluded.data_file,
    passed = excluded.passed,
    batch = excluded.batch,
    failures = excluded.failures,
    failure_count = excluded.failure_count,
    error = excluded.error,
    checked_at = excluded.checked_at,
    duration_ns = excluded.duration_ns;
`

const selectColumns = `id, run_id, rule_file, data_file, passed, batch, failures, error, checked_at, duration_ns`
