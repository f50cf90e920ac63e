package config

import "time"

// Default values for configuration fields.
const (
	// Validation defaults
	DefaultRulesPath = "./rules.yaml"

	// Watch defaults
	DefaultWatchDebounce = 250 * time.Millisecond

	// Report defaults
	DefaultReportsBackend     = "sqlite"
	DefaultSQLiteDriver       = "sqlite"
	DefaultSQLitePath         = "data/reports.db"
	DefaultSQLiteJournalMode  = "WAL"
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultSQLiteMaxOpenConns = 4
	DefaultRetentionSchedule  = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "console"
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "verity"
	DefaultMetricsMaxFields     = 100
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingServiceName   = "verity"
)

// DefaultWatchExtensions are the data file types picked up by the watcher.
var DefaultWatchExtensions = []string{".json", ".yaml", ".yml"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Validation.RulesPath == "" {
		cfg.Validation.RulesPath = DefaultRulesPath
	}

	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	reports := &cfg.Reports
	if reports.Backend == "" {
		reports.Backend = DefaultReportsBackend
	}
	if reports.SQLite.Driver == "" {
		reports.SQLite.Driver = DefaultSQLiteDriver
	}
	if reports.SQLite.Path == "" {
		reports.SQLite.Path = DefaultSQLitePath
	}
	if reports.SQLite.JournalMode == "" {
		reports.SQLite.JournalMode = DefaultSQLiteJournalMode
	}
	if reports.SQLite.BusyTimeout == 0 {
		reports.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if reports.SQLite.MaxOpenConns == 0 {
		reports.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if reports.Retention.Schedule == "" {
		reports.Retention.Schedule = DefaultRetentionSchedule
	}

	tel := &cfg.Telemetry
	if tel.Logging.Level == "" {
		tel.Logging.Level = DefaultLogLevel
	}
	if tel.Logging.Format == "" {
		tel.Logging.Format = DefaultLogFormat
	}
	if tel.Metrics.ListenAddress == "" {
		tel.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if tel.Metrics.Path == "" {
		tel.Metrics.Path = DefaultMetricsPath
	}
	if tel.Metrics.Namespace == "" {
		tel.Metrics.Namespace = DefaultMetricsNamespace
	}
	if tel.Metrics.MaxFieldLabels == 0 {
		tel.Metrics.MaxFieldLabels = DefaultMetricsMaxFields
	}
	if tel.Tracing.Endpoint == "" {
		tel.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if tel.Tracing.Sampler == "" {
		tel.Tracing.Sampler = DefaultTracingSampler
	}
	if tel.Tracing.SampleRatio == 0 {
		tel.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if tel.Tracing.ServiceName == "" {
		tel.Tracing.ServiceName = DefaultTracingServiceName
	}
}
