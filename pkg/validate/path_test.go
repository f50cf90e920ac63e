package validate

import (
	"encoding/json"
	"testing"
)

type address struct {
	Zip  string `json:"zip_code"`
	City string
}

type person struct {
	Name    string
	Address *address `yaml:"addr"`
	secret  string
}

func TestResolve(t *testing.T) {
	data := map[string]any{
		"user": map[string]any{
			"name":    "ada",
			"age":     0,
			"active":  false,
			"address": map[string]any{"zip": "10115"},
		},
		"items":  []any{"a", "b", "c"},
		"counts": map[string]int{"x": 3},
		"zero":   0,
		"empty":  "",
		"null":   nil,
		"num":    json.Number("1.5"),
	}

	tests := []struct {
		name string
		key  string
		want any
	}{
		{name: "top level string", key: "empty", want: ""},
		{name: "top level zero", key: "zero", want: 0},
		{name: "nested map", key: "user.address.zip", want: "10115"},
		{name: "nested zero", key: "user.age", want: 0},
		{name: "nested false", key: "user.active", want: false},
		{name: "slice index", key: "items.1", want: "b"},
		{name: "slice index out of range", key: "items.5", want: nil},
		{name: "slice non numeric", key: "items.x", want: nil},
		{name: "typed map", key: "counts.x", want: 3},
		{name: "missing top level", key: "nope", want: nil},
		{name: "missing nested", key: "user.address.street", want: nil},
		{name: "through scalar", key: "user.name.first", want: nil},
		{name: "nil value", key: "null", want: nil},
		{name: "json number", key: "num", want: json.Number("1.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(data, tt.key)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestResolve_Structs(t *testing.T) {
	p := &person{Name: "ada", Address: &address{Zip: "10115", City: "Berlin"}, secret: "x"}

	tests := []struct {
		key  string
		want any
	}{
		{key: "Name", want: "ada"},
		{key: "name", want: "ada"},
		{key: "addr.zip_code", want: "10115"},
		{key: "address.city", want: "Berlin"},
		{key: "secret", want: nil},
		{key: "addr.", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Resolve(p, tt.key); got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestResolve_TypedNil(t *testing.T) {
	p := person{Name: "ada"}
	if got := Resolve(p, "addr"); got != nil {
		t.Errorf("Resolve(nil pointer field) = %#v, want nil", got)
	}
	if got := Resolve(p, "addr.zip_code"); got != nil {
		t.Errorf("Resolve through nil pointer = %#v, want nil", got)
	}
	if got := Resolve(nil, "a"); got != nil {
		t.Errorf("Resolve(nil data) = %#v, want nil", got)
	}
}
