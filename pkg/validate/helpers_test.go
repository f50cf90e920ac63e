package validate

import (
	"bytes"
	"log/slog"
	"testing"
)

// checkValue validates {"f": value} against spec and fails the test on a
// configuration error.
func checkValue(t *testing.T, v *Validator, value any, spec Spec) bool {
	t.Helper()
	ok, err := v.CheckRules(map[string]any{"f": value}, RuleSet{Field("f", spec)})
	if err != nil {
		t.Fatalf("CheckRules: %v", err)
	}
	return ok
}

// captureLogger returns a validator whose diagnostics land in buf.
func captureLogger() (*Validator, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithLogger(logger)), buf
}
