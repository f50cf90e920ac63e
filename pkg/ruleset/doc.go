// Package ruleset loads validation rule files.
//
// A rule file is a YAML (or JSON) document with up to five top-level keys:
//
//	batch: true
//	aliases:
//	  "~=": eq
//	regex:
//	  zip: '^\d{5}$'
//	messages:
//	  name: name is required
//	  age.between: age must be between 1 and 120
//	rules:
//	  name: require|max:25
//	  age:
//	    - number
//	    - between: "1,120"
//	  zip: zip
//	  password_confirm:
//	    "=": password
//
// A field's rules are a pipe-delimited string, a sequence of tokens, or a
// mapping of keyed tokens. Sequence items are rule strings or single-entry
// mappings. Mapping keys keep their parameters unchanged, so
// "in: [a, b]" passes a list and ">=: other.field" passes a field path. A
// mapping entry with no value is a bare rule.
//
// Key order is preserved: messages resolve in file order and fields are
// checked in file order.
//
// Every problem is reported with its file, line and column. Parse collects
// all structural problems in an *ErrorList rather than stopping at the first.
package ruleset
