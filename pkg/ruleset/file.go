package ruleset

import (
	"fmt"
	"os"
	"strings"

	"mercator-hq/verity/pkg/validate"

	"gopkg.in/yaml.v3"
)

// Top-level keys of a rule file.
const (
	keyBatch    = "batch"
	keyAliases  = "aliases"
	keyRegex    = "regex"
	keyMessages = "messages"
	keyRules    = "rules"
)

var topLevelKeys = []string{keyBatch, keyAliases, keyRegex, keyMessages, keyRules}

// File is a parsed rule file.
type File struct {
	// Source is the path or name the file was parsed from.
	Source string

	// Batch overrides the validator's batch mode when set.
	Batch *bool

	Aliases  []Alias
	Regexes  []Pattern
	Messages []Message
	Rules    []Rule
}

// Alias maps an operator or shorthand to a rule name.
type Alias struct {
	Alias    string
	Rule     string
	Location Location
}

// Pattern is a named regular expression.
type Pattern struct {
	Name     string
	Source   string
	Location Location
}

// Message is a custom failure message keyed by field, "field.label", or a
// comma-separated list of either.
type Message struct {
	Key      string
	Text     string
	Location Location
}

// Rule is the ordered token list of one field.
type Rule struct {
	Field    string
	Tokens   []RuleToken
	Location Location
}

// RuleToken is a validate.Token with its position in the file.
type RuleToken struct {
	validate.Token
	Location Location
}

// Load reads and parses the rule file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("failed to read rule file: %v", err),
			Location: Location{File: path},
			Err:      err,
		}
	}
	return Parse(data, path)
}

// Parse parses a rule file. source names the file in error locations.
func Parse(data []byte, source string) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Type:     ErrorTypeSyntax,
			Message:  err.Error(),
			Location: Location{File: source},
			Err:      err,
		}
	}

	p := &parser{source: source, file: &File{Source: source}}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		p.errs.Add(ErrorTypeStructural, Location{File: source}, "rule file is empty")
		return nil, p.errs.err()
	}

	p.parseRoot(doc.Content[0])
	if err := p.errs.err(); err != nil {
		return nil, err
	}
	return p.file, nil
}

// RuleSet returns the file's rules as a validate.RuleSet.
func (f *File) RuleSet() validate.RuleSet {
	rs := make(validate.RuleSet, 0, len(f.Rules))
	for _, r := range f.Rules {
		tokens := make([]validate.Token, len(r.Tokens))
		for i, t := range r.Tokens {
			tokens[i] = t.Token
		}
		rs = append(rs, validate.Field(r.Field, validate.Tokens(tokens...)))
	}
	return rs
}

// Apply configures v with the file's batch mode, aliases, regexes, messages
// and rules, in file order.
func (f *File) Apply(v *validate.Validator) *validate.Validator {
	if f.Batch != nil {
		v.Batch(*f.Batch)
	}
	for _, a := range f.Aliases {
		v.Alias(a.Alias, a.Rule)
	}
	for _, p := range f.Regexes {
		v.Regex(p.Name, p.Source)
	}
	for _, m := range f.Messages {
		v.Message(m.Key, m.Text)
	}
	return v.Rules(f.RuleSet())
}

// Fields returns the field keys in file order.
func (f *File) Fields() []string {
	out := make([]string, len(f.Rules))
	for i, r := range f.Rules {
		out[i] = r.Field
	}
	return out
}

type parser struct {
	source string
	file   *File
	errs   ErrorList
}

func (p *parser) loc(node *yaml.Node) Location {
	return locate(node, p.source)
}

func (p *parser) parseRoot(root *yaml.Node) {
	if root.Kind != yaml.MappingNode {
		p.errs.Add(ErrorTypeStructural, p.loc(root), "rule file must be a mapping, got %s", kindName(root))
		return
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if seen[key.Value] {
			p.errs.Add(ErrorTypeStructural, p.loc(key), "duplicate key %q", key.Value)
			continue
		}
		seen[key.Value] = true

		switch key.Value {
		case keyBatch:
			p.parseBatch(value)
		case keyAliases:
			p.parseAliases(value)
		case keyRegex:
			p.parseRegexes(value)
		case keyMessages:
			p.parseMessages(value)
		case keyRules:
			p.parseRules(value)
		default:
			pe := p.errs.Add(ErrorTypeStructural, p.loc(key), "unknown key %q", key.Value)
			pe.Suggestion = "expected one of: " + strings.Join(topLevelKeys, ", ")
		}
	}

	if !seen[keyRules] {
		p.errs.Add(ErrorTypeStructural, p.loc(root), "missing %q section", keyRules)
	}
}

func (p *parser) parseBatch(node *yaml.Node) {
	var batch bool
	if node.Kind != yaml.ScalarNode || node.Decode(&batch) != nil {
		p.errs.Add(ErrorTypeStructural, p.loc(node), "batch must be a boolean")
		return
	}
	p.file.Batch = &batch
}

// stringPairs walks a mapping whose values are all strings.
func (p *parser) stringPairs(node *yaml.Node, section string, fn func(key, value string, loc Location)) {
	if node.Kind != yaml.MappingNode {
		p.errs.Add(ErrorTypeStructural, p.loc(node), "%s must be a mapping, got %s", section, kindName(node))
		return
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			p.errs.Add(ErrorTypeStructural, p.loc(key), "duplicate %s key %q", section, key.Value)
			continue
		}
		seen[key.Value] = true
		if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
			p.errs.Add(ErrorTypeStructural, p.loc(value), "%s %q must be a string", section, key.Value)
			continue
		}
		fn(key.Value, value.Value, p.loc(key))
	}
}

func (p *parser) parseAliases(node *yaml.Node) {
	p.stringPairs(node, keyAliases, func(key, value string, loc Location) {
		p.file.Aliases = append(p.file.Aliases, Alias{Alias: key, Rule: value, Location: loc})
	})
}

func (p *parser) parseRegexes(node *yaml.Node) {
	p.stringPairs(node, keyRegex, func(key, value string, loc Location) {
		p.file.Regexes = append(p.file.Regexes, Pattern{Name: key, Source: value, Location: loc})
	})
}

func (p *parser) parseMessages(node *yaml.Node) {
	p.stringPairs(node, keyMessages, func(key, value string, loc Location) {
		p.file.Messages = append(p.file.Messages, Message{Key: key, Text: value, Location: loc})
	})
}

func (p *parser) parseRules(node *yaml.Node) {
	if node.Kind != yaml.MappingNode {
		p.errs.Add(ErrorTypeStructural, p.loc(node), "rules must be a mapping, got %s", kindName(node))
		return
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		field := key.Value
		if field == "" {
			p.errs.Add(ErrorTypeStructural, p.loc(key), "empty field key")
			continue
		}
		if seen[field] {
			p.errs.Add(ErrorTypeStructural, p.loc(key), "duplicate field %q", field)
			continue
		}
		seen[field] = true

		tokens, ok := p.parseTokens(field, key, value)
		if !ok {
			continue
		}
		p.file.Rules = append(p.file.Rules, Rule{Field: field, Tokens: tokens, Location: p.loc(key)})
	}
}

// parseTokens reads a field's rule value: a pipe-delimited string, a
// sequence of tokens, or a mapping of keyed tokens.
func (p *parser) parseTokens(field string, key, node *yaml.Node) ([]RuleToken, bool) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			p.errs.Add(ErrorTypeStructural, p.loc(key), "field %q has no rules", field)
			return nil, false
		}
		return p.splitRules(node), true

	case yaml.SequenceNode:
		var tokens []RuleToken
		ok := true
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				tokens = append(tokens, RuleToken{Token: validate.T(item.Value), Location: p.loc(item)})
			case yaml.MappingNode:
				if len(item.Content) != 2 {
					p.errs.Add(ErrorTypeStructural, p.loc(item), "field %q: keyed token must have exactly one key", field)
					ok = false
					continue
				}
				tok, good := p.keyedToken(field, item.Content[0], item.Content[1])
				ok = ok && good
				tokens = append(tokens, tok)
			default:
				p.errs.Add(ErrorTypeStructural, p.loc(item), "field %q: unexpected %s in rule list", field, kindName(item))
				ok = false
			}
		}
		return tokens, ok

	case yaml.MappingNode:
		var tokens []RuleToken
		ok := true
		for i := 0; i+1 < len(node.Content); i += 2 {
			tok, good := p.keyedToken(field, node.Content[i], node.Content[i+1])
			ok = ok && good
			tokens = append(tokens, tok)
		}
		return tokens, ok
	}

	p.errs.Add(ErrorTypeStructural, p.loc(node), "field %q: unexpected %s", field, kindName(node))
	return nil, false
}

// splitRules splits a pipe-delimited scalar into tokens that share its
// location.
func (p *parser) splitRules(node *yaml.Node) []RuleToken {
	spec := validate.Rules(node.Value)
	loc := p.loc(node)
	tokens := make([]RuleToken, 0, len(spec.TokenList()))
	for _, t := range spec.TokenList() {
		tokens = append(tokens, RuleToken{Token: t, Location: loc})
	}
	return tokens
}

func (p *parser) keyedToken(field string, key, value *yaml.Node) (RuleToken, bool) {
	loc := p.loc(key)
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return RuleToken{Token: validate.T(key.Value), Location: loc}, true
	}

	var param any
	if err := value.Decode(&param); err != nil {
		p.errs.Add(ErrorTypeStructural, p.loc(value), "field %q: bad parameter for %q: %v", field, key.Value, err)
		return RuleToken{Location: loc}, false
	}
	return RuleToken{Token: validate.Op(key.Value, param), Location: loc}, true
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown node"
}
