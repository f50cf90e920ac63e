package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is human readable output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat validates s against the formats a command supports. An empty
// s selects the first allowed format.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	if len(allowed) == 0 {
		allowed = []OutputFormat{FormatText, FormatJSON}
	}
	if s == "" {
		return allowed[0], nil
	}

	f := OutputFormat(strings.ToLower(s))
	if slices.Contains(allowed, f) {
		return f, nil
	}

	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unsupported format %q (supported: %s)", s, strings.Join(names, ", "))
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter prints data with its String method, or %v.
type TextFormatter struct{}

// FormatTo writes data to w followed by a newline.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	text := fmt.Sprintf("%v", data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for format. CSV output is produced by
// the report exporters, not by a Formatter.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}
