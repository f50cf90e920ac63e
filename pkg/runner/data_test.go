package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/verity/pkg/validate"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "user.json", want: FormatJSON},
		{path: "USER.JSON", want: FormatJSON},
		{path: "user.yaml", want: FormatYAML},
		{path: "dir/user.yml", want: FormatYAML},
		{path: "user.txt", want: ""},
		{path: "user", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path); got != tt.want {
				t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseData_JSONKeepsNumbers(t *testing.T) {
	data, err := ParseData([]byte(`{"count": 0.0, "user": {"age": 30}}`), FormatJSON)
	if err != nil {
		t.Fatalf("ParseData() error = %v", err)
	}

	if got := validate.Resolve(data, "count"); got != json.Number("0.0") {
		t.Errorf("count = %#v, want json.Number(\"0.0\")", got)
	}
	if got := validate.Resolve(data, "user.age"); got != json.Number("30") {
		t.Errorf("user.age = %#v, want json.Number(\"30\")", got)
	}
}

func TestParseData_YAMLNonStringKeys(t *testing.T) {
	src := "codes:\n  1: one\n  2: two\nname: ada\n"
	data, err := ParseData([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("ParseData() error = %v", err)
	}

	if got := validate.Resolve(data, "codes.1"); got != "one" {
		t.Errorf("codes.1 = %#v, want one", got)
	}
	if got := validate.Resolve(data, "name"); got != "ada" {
		t.Errorf("name = %#v, want ada", got)
	}
}

func TestParseData_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{name: "bad json", data: `{"a":`, format: FormatJSON},
		{name: "trailing json", data: `{"a":1} {"b":2}`, format: FormatJSON},
		{name: "bad yaml", data: "a: [1, 2", format: FormatYAML},
		{name: "unknown format", data: `{}`, format: "toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseData([]byte(tt.data), tt.format); err == nil {
				t.Error("ParseData() expected error")
			}
		})
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(path, []byte("name: ada\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadData(path)
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if got := validate.Resolve(data, "name"); got != "ada" {
		t.Errorf("name = %#v, want ada", got)
	}

	if _, err := LoadData(filepath.Join(dir, "user.txt")); err == nil {
		t.Error("LoadData(.txt) expected error")
	}
	if _, err := LoadData(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadData(missing) expected error")
	}
}
