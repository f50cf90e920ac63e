package validate

import (
	"encoding/json"
	"testing"
)

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "int and string", a: 1, b: "1", want: true},
		{name: "decimal string and int", a: "1.0", b: 1, want: true},
		{name: "json number and float", a: json.Number("2.5"), b: 2.5, want: true},
		{name: "bool and number", a: true, b: 1, want: true},
		{name: "same text", a: "abc", b: "abc", want: true},
		{name: "different text", a: "abc", b: "abd", want: false},
		{name: "number and text", a: 0, b: "abc", want: false},
		{name: "number and blank", a: 0, b: "", want: false},
		{name: "nil and nil", a: nil, b: nil, want: true},
		{name: "nil and zero", a: nil, b: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looseEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("looseEqual(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComparisonRules(t *testing.T) {
	data := map[string]any{
		"five":     5,
		"fiveText": "5",
		"ten":      10,
		"abc":      "abc",
		"abd":      "abd",
	}

	tests := []struct {
		name  string
		field string
		spec  Spec
		want  bool
	}{
		{name: "egt across types", field: "five", spec: Rules("egt:fiveText"), want: true},
		{name: "gt false", field: "five", spec: Rules("gt:ten"), want: false},
		{name: "lt", field: "five", spec: Rules("lt:ten"), want: true},
		{name: "lte equal", field: "five", spec: Rules("lte:fiveText"), want: true},
		{name: "eq loose", field: "five", spec: Rules("eq:fiveText"), want: true},
		{name: "unequal", field: "five", spec: Rules("unequal:ten"), want: true},
		{name: "string ordering", field: "abc", spec: Rules("lt:abd"), want: true},
		{name: "number against text", field: "five", spec: Rules("gt:abc"), want: false},
		{name: "missing operand", field: "five", spec: Rules("eq:nope"), want: false},
		{name: "alias in string form", field: "ten", spec: Rules(">=:five"), want: true},
		{name: "keyed alias", field: "ten", spec: Tokens(Op(">", "five")), want: true},
		{name: "keyed not equal", field: "five", spec: Tokens(Op("<>", "fiveText")), want: false},
		{name: "literal operand", field: "ten", spec: Tokens(Op(">", 3)), want: true},
		{name: "literal operand fails", field: "five", spec: Tokens(Op("=", 6)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			ok, err := v.CheckRules(data, RuleSet{Field(tt.field, tt.spec)})
			if err != nil {
				t.Fatalf("CheckRules: %v", err)
			}
			if ok != tt.want {
				t.Errorf("got %v, want %v (report %v)", ok, tt.want, v.Error())
			}
		})
	}
}

func TestInRules(t *testing.T) {
	tests := []struct {
		name  string
		value any
		spec  Spec
		want  bool
	}{
		{name: "in comma list", value: "b", spec: Rules("in:a,b,c"), want: true},
		{name: "in comma list miss", value: "d", spec: Rules("in:a,b,c"), want: false},
		{name: "in string slice", value: "y", spec: Tokens(Op("in", []string{"x", "y"})), want: true},
		{name: "in int slice", value: 2, spec: Tokens(Op("in", []int{1, 2})), want: true},
		{name: "in loose", value: "2", spec: Tokens(Op("in", []any{1, 2})), want: true},
		{name: "notIn", value: "c", spec: Rules("notIn:a,b"), want: true},
		{name: "notIn hit", value: "a", spec: Rules("notIn:a,b"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkValue(t, New(), tt.value, tt.spec); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
