package validate

import "strings"

// override is one custom message entry. Its key is a comma-separated list
// whose members are field keys or "field.label" compounds.
type override struct {
	key     string
	members []string
	text    string
}

// messageTable holds custom messages in insertion order. Setting an existing
// key replaces its text in place.
type messageTable []override

func (t messageTable) set(key, text string) messageTable {
	for i := range t {
		if t[i].key == key {
			t[i].text = text
			return t
		}
	}
	members := strings.Split(key, ",")
	for i := range members {
		members[i] = strings.TrimSpace(members[i])
	}
	return append(t, override{key: key, members: members, text: text})
}

// resolve returns the first override covering field or field.label, or the
// default "<label> <field>".
func (t messageTable) resolve(field, label string) string {
	compound := field + "." + label
	for _, o := range t {
		for _, m := range o.members {
			if m == field || m == compound {
				return o.text
			}
		}
	}
	return label + " " + field
}

func (t messageTable) clone() messageTable {
	out := make(messageTable, len(t))
	for i, o := range t {
		out[i] = override{key: o.key, members: append([]string(nil), o.members...), text: o.text}
	}
	return out
}
