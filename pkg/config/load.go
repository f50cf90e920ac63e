package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "VERITY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies VERITY_*
// environment overrides, which always win over the file. An empty path
// starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies VERITY_SECTION_FIELD variables to cfg.
// Values that do not parse are ignored.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	env := envReader{getenv: getenv}

	env.str("VALIDATION_RULES_PATH", &cfg.Validation.RulesPath)
	env.boolean("VALIDATION_FAIL_FAST", &cfg.Validation.FailFast)
	env.boolean("VALIDATION_STRICT", &cfg.Validation.Strict)

	env.list("WATCH_PATHS", &cfg.Watch.Paths)
	env.list("WATCH_EXTENSIONS", &cfg.Watch.Extensions)
	env.duration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	env.str("WATCH_SCHEDULE", &cfg.Watch.Schedule)

	env.boolean("REPORTS_ENABLED", &cfg.Reports.Enabled)
	env.str("REPORTS_BACKEND", &cfg.Reports.Backend)
	env.str("REPORTS_SQLITE_DRIVER", &cfg.Reports.SQLite.Driver)
	env.str("REPORTS_SQLITE_PATH", &cfg.Reports.SQLite.Path)
	env.str("REPORTS_SQLITE_JOURNAL_MODE", &cfg.Reports.SQLite.JournalMode)
	env.duration("REPORTS_SQLITE_BUSY_TIMEOUT", &cfg.Reports.SQLite.BusyTimeout)
	env.integer("REPORTS_RETENTION_DAYS", &cfg.Reports.Retention.Days)
	env.str("REPORTS_RETENTION_SCHEDULE", &cfg.Reports.Retention.Schedule)
	env.str("REPORTS_RETENTION_ARCHIVE_PATH", &cfg.Reports.Retention.ArchivePath)

	env.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	env.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	env.boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	env.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	env.str("TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	env.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	env.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	env.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	env.boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	env.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	env.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

type envReader struct {
	getenv func(string) string
}

func (e envReader) lookup(name string) (string, bool) {
	val := e.getenv(EnvPrefix + name)
	return val, val != ""
}

func (e envReader) str(name string, dst *string) {
	if val, ok := e.lookup(name); ok {
		*dst = val
	}
}

func (e envReader) list(name string, dst *[]string) {
	val, ok := e.lookup(name)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e envReader) boolean(name string, dst *bool) {
	if val, ok := e.lookup(name); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func (e envReader) integer(name string, dst *int) {
	if val, ok := e.lookup(name); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func (e envReader) float(name string, dst *float64) {
	if val, ok := e.lookup(name); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func (e envReader) duration(name string, dst *time.Duration) {
	if val, ok := e.lookup(name); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
