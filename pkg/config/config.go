package config

import "time"

// Config is the root configuration structure for verity.
type Config struct {
	// Validation controls how rule files are applied to data.
	Validation ValidationConfig `yaml:"validation"`

	// Watch controls the file watcher used by "verity watch".
	Watch WatchConfig `yaml:"watch"`

	// Reports controls persistence of check results.
	Reports ReportsConfig `yaml:"reports"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ValidationConfig contains rule evaluation settings.
type ValidationConfig struct {
	// RulesPath is the default rule file.
	// Default: "./rules.yaml"
	RulesPath string `yaml:"rules_path"`

	// FailFast stops each check at the first failing field instead of
	// collecting every failure. A rule file's own "batch" key wins.
	// Default: false
	FailFast bool `yaml:"fail_fast"`

	// Strict lints the rule file before every check and refuses to run
	// rules that reference unknown names.
	// Default: false
	Strict bool `yaml:"strict"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Paths are the data files or directories to watch.
	Paths []string `yaml:"paths"`

	// Extensions limits watched files by extension.
	// Default: [".json", ".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`

	// Debounce is the quiet period after the last change before a check runs.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is an optional cron expression that re-checks every watched
	// file periodically, in addition to change events.
	Schedule string `yaml:"schedule"`
}

// ReportsConfig contains report storage settings.
type ReportsConfig struct {
	// Enabled turns on persistence of check results.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures pruning of old reports.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite backend settings.
type SQLiteConfig struct {
	// Driver selects the database/sql driver: "sqlite" (pure Go) or
	// "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/reports.db"
	Path string `yaml:"path"`

	// JournalMode is the SQLite journal mode.
	// Default: "WAL"
	JournalMode string `yaml:"journal_mode"`

	// BusyTimeout is how long a writer waits for a lock.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MaxOpenConns limits open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`
}

// RetentionConfig contains report retention settings.
type RetentionConfig struct {
	// Days is how long reports are kept. Zero keeps them forever.
	// Default: 0
	Days int `yaml:"days"`

	// Schedule is the cron expression for pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// ArchivePath is a directory that receives a JSON export of every
	// pruned batch. Empty disables archiving.
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint listens.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "verity"
	Namespace string `yaml:"namespace"`

	// Subsystem is an optional second prefix.
	Subsystem string `yaml:"subsystem"`

	// MaxFieldLabels caps the distinct field labels of the per-field
	// failure counter. Further fields are counted under "other".
	// Default: 100
	MaxFieldLabels int `yaml:"max_field_labels"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Sampler selects "always", "never" or "ratio".
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of runs traced with the ratio sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the OpenTelemetry service name.
	// Default: "verity"
	ServiceName string `yaml:"service_name"`
}
