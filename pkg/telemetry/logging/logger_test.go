package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid JSON config", config: Config{Level: "info", Format: "json"}},
		{name: "valid text config", config: Config{Level: "debug", Format: "text"}},
		{name: "valid console config", config: Config{Level: "warn", Format: "console"}},
		{name: "upper case", config: Config{Level: "ERROR", Format: "JSON"}},
		{name: "defaults", config: Config{}},
		{name: "invalid log level", config: Config{Level: "invalid"}, wantErr: true},
		{name: "invalid format", config: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "warn", Format: "text", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were written: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error messages missing: %s", out)
	}
	if logger.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v", logger.Level())
	}
}

func TestLogger_JSONContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithRuleFile(ctx, "rules.yaml")
	logger.WithComponent("runner").InfoContext(ctx, "check finished", "passed", true)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]any{
		"msg":       "check finished",
		"run_id":    "run-1",
		"rule_file": "rules.yaml",
		"component": "runner",
		"passed":    true,
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLogger_ConsoleDropsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Format: "console", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output has a timestamp: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("console output = %s", buf.String())
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := New(Config{Format: "text", Writer: buf})

	if logger.WithContext(context.Background()) != logger {
		t.Errorf("WithContext without fields should return the same logger")
	}

	ctx := WithDataFile(context.Background(), "data.json")
	logger.WithContext(ctx).Info("loaded")
	if !strings.Contains(buf.String(), "data_file=data.json") {
		t.Errorf("output = %s", buf.String())
	}
}
