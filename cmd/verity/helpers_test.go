package main

import (
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/verity/pkg/config"
	"mercator-hq/verity/pkg/report"
)

const signupRules = `rules:
  name: require
  age: number|between:1,120
`

// setupTest installs a default configuration with reports in a temporary
// SQLite database and resets every command's flags.
func setupTest(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Telemetry.Logging.Level = "error"
	cfg.Reports.SQLite.Path = filepath.Join(t.TempDir(), "reports.db")
	config.SetConfig(cfg)

	checkFlags.rules, checkFlags.failFast, checkFlags.strict = "", false, false
	checkFlags.format, checkFlags.noRecord = "text", false
	lintFlags.format = "text"
	historyFlags.status, historyFlags.rules, historyFlags.data, historyFlags.runID = "", "", "", ""
	historyFlags.since, historyFlags.limit, historyFlags.offset = 0, report.DefaultLimit, 0
	historyFlags.asc, historyFlags.format, historyFlags.output = false, "text", ""
	pruneFlags.days, pruneFlags.archive, pruneFlags.dryRun = 0, "", false

	t.Cleanup(func() { config.SetConfig(nil) })
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
