package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Location is a position in a rule file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String formats the location as "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location has a file and line.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

func locate(node *yaml.Node, file string) Location {
	if node == nil {
		return Location{File: file}
	}
	return Location{File: file, Line: node.Line, Column: node.Column}
}
