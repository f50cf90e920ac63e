package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/verity/pkg/cli"
)

func TestLintRules(t *testing.T) {
	tests := []struct {
		name       string
		rules      string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "valid",
			rules:      signupRules,
			wantOutput: []string{"✓ ", "(2 fields)", "1 file(s), 0 problem(s)"},
		},
		{
			name:       "unknown rule",
			rules:      "rules:\n  name: require|requird\n",
			wantErr:    true,
			wantOutput: []string{"✗ ", `unknown rule "requird"`, "(line 2,", "1 problem(s)"},
		},
		{
			name:       "bad pattern",
			rules:      "regex:\n  code: \"[a-\"\nrules:\n  id: code\n",
			wantErr:    true,
			wantOutput: []string{"✗ ", "(line 2,"},
		},
		{
			name:       "syntax error",
			rules:      "rules: [\n",
			wantErr:    true,
			wantOutput: []string{"✗ "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTest(t)
			path := writeFile(t, t.TempDir(), "rules.yaml", tt.rules)

			var out bytes.Buffer
			err := lintRules(&out, []string{path})

			if tt.wantErr != (err != nil) {
				t.Fatalf("lintRules() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, cli.ErrChecksFailed) {
				t.Errorf("lintRules() error = %v, want ErrChecksFailed", err)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestLintRules_DefaultPathJSON(t *testing.T) {
	cfg := setupTest(t)
	cfg.Validation.RulesPath = writeFile(t, t.TempDir(), "rules.yaml", signupRules)
	lintFlags.format = "json"

	var out bytes.Buffer
	if err := lintRules(&out, nil); err != nil {
		t.Fatalf("lintRules() error = %v", err)
	}

	var results []LintResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(results) != 1 || !results[0].Valid || results[0].File != cfg.Validation.RulesPath {
		t.Errorf("results = %+v, want the configured rule file, valid", results)
	}
}
