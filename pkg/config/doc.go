// Package config provides configuration management for verity.
//
// Configuration is read from a YAML file, completed with defaults,
// overridden by VERITY_* environment variables and validated as a whole.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("verity.yaml")               // file + defaults
//	cfg, err := config.LoadConfigWithEnvOverrides("verity.yaml") // + environment
//	cfg, err := config.LoadConfigWithEnvOverrides("")            // defaults + environment
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VERITY_SECTION_FIELD:
//
//   - VERITY_VALIDATION_RULES_PATH overrides validation.rules_path
//   - VERITY_REPORTS_SQLITE_PATH overrides reports.sqlite.path
//   - VERITY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Validation
//
// Every problem is collected into a single ValidationError:
//
//	configuration validation failed with 2 errors:
//	  - reports.backend: unknown backend "postgres" (valid: memory, sqlite)
//	  - telemetry.tracing.sample_ratio: must be between 0 and 1
//
// # Example Configuration
//
//	validation:
//	  rules_path: "./rules.yaml"
//	  fail_fast: false
//
//	watch:
//	  paths: ["./data"]
//	  debounce: "250ms"
//
//	reports:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/reports.db"
//	  retention:
//	    days: 30
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    listen_address: "127.0.0.1:9090"
//
// # Thread Safety
//
// The singleton accessors use a read-write lock; concurrent reads are safe
// while ReloadConfig swaps in a new configuration.
package config
