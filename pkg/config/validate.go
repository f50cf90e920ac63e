package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "reports.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the entire configuration and returns a ValidationError
// listing every problem, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateValidation(&cfg.Validation)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateReports(&cfg.Reports)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateValidation(cfg *ValidationConfig) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(cfg.RulesPath) == "" {
		errs = append(errs, FieldError{Field: "validation.rules_path", Message: "rules path is required"})
	}
	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "debounce must not be negative"})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
	if cfg.Schedule != "" {
		if err := validateCron(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{Field: "watch.schedule", Message: err.Error()})
		}
	}
	return errs
}

func validateReports(cfg *ReportsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "reports.backend",
			Message: fmt.Sprintf("unknown backend %q (valid: memory, sqlite)", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		switch cfg.SQLite.Driver {
		case "sqlite", "sqlite3":
		default:
			errs = append(errs, FieldError{
				Field:   "reports.sqlite.driver",
				Message: fmt.Sprintf("unknown driver %q (valid: sqlite, sqlite3)", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "reports.sqlite.path", Message: "database path is required"})
		}
		switch strings.ToUpper(cfg.SQLite.JournalMode) {
		case "WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF":
		default:
			errs = append(errs, FieldError{
				Field:   "reports.sqlite.journal_mode",
				Message: fmt.Sprintf("unknown journal mode %q", cfg.SQLite.JournalMode),
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "reports.sqlite.busy_timeout", Message: "busy timeout must not be negative"})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{Field: "reports.sqlite.max_open_conns", Message: "must be at least 1"})
		}
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{Field: "reports.retention.days", Message: "retention days must not be negative"})
	}
	if err := validateCron(cfg.Retention.Schedule); err != nil {
		errs = append(errs, FieldError{Field: "reports.retention.schedule", Message: err.Error()})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (valid: json, text, console)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid address %q: %v", cfg.Metrics.ListenAddress, err),
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "path must start with /"})
		}
	}
	if cfg.Metrics.MaxFieldLabels < 0 {
		errs = append(errs, FieldError{Field: "telemetry.metrics.max_field_labels", Message: "must not be negative"})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (valid: always, never, ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0 and 1"})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
	}
	return errs
}

// validateCron parses a standard five-field cron expression.
func validateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
