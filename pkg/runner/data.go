package runner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatForPath returns the data format for a file extension, or "" when
// the extension is not a data file.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// LoadData reads and decodes a JSON or YAML data file.
func LoadData(path string) (any, error) {
	format := FormatForPath(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported data file extension %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseData(data, format)
}

// ParseData decodes data in the given format. JSON numbers are kept as
// json.Number so that "0.0" and "0" stay distinguishable. YAML mappings
// are converted to map[string]any.
func ParseData(data []byte, format string) (any, error) {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		var out any
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, errors.New("invalid JSON: unexpected data after top-level value")
		}
		return out, nil

	case FormatYAML:
		var out any
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return normalize(out), nil

	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
}

// normalize rewrites YAML mappings with non-string keys so that field
// paths resolve through them.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
