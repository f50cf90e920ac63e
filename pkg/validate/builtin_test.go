package validate

import "testing"

func TestBuiltinTags(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		value any
		want  bool
	}{
		{name: "require text", rule: "require", value: "abc", want: true},
		{name: "require blank", rule: "require", value: "  ", want: false},
		{name: "require missing", rule: "require", value: nil, want: false},
		{name: "require zero", rule: "require", value: 0, want: true},
		{name: "require false", rule: "require", value: false, want: false},
		{name: "require empty list", rule: "require", value: []any{}, want: false},

		{name: "accepted yes", rule: "accepted", value: "yes", want: true},
		{name: "accepted on", rule: "accepted", value: "on", want: true},
		{name: "accepted one", rule: "accepted", value: 1, want: true},
		{name: "accepted string one", rule: "accepted", value: "1", want: true},
		{name: "accepted true", rule: "accepted", value: true, want: true},
		{name: "accepted no", rule: "accepted", value: "no", want: false},
		{name: "accepted two", rule: "accepted", value: 2, want: false},

		{name: "boolean true", rule: "boolean", value: true, want: true},
		{name: "boolean one", rule: "boolean", value: 1, want: true},
		{name: "boolean string one", rule: "bool", value: "1", want: true},
		{name: "boolean yes", rule: "boolean", value: "yes", want: false},
		{name: "boolean two", rule: "boolean", value: 2, want: false},

		{name: "number int string", rule: "number", value: "12", want: true},
		{name: "number signed decimal", rule: "number", value: "-1.5", want: true},
		{name: "number plus", rule: "number", value: "+3", want: true},
		{name: "number exponent", rule: "number", value: "1e3", want: false},
		{name: "number text", rule: "number", value: "abc", want: false},
		{name: "number native", rule: "number", value: 12, want: true},

		{name: "int", rule: "int", value: "12", want: true},
		{name: "int decimal", rule: "int", value: "1.5", want: false},
		{name: "float", rule: "float", value: "1.5", want: true},
		{name: "float native", rule: "float", value: 1.5, want: true},
		{name: "float integer", rule: "float", value: "12", want: false},

		{name: "alpha letter", rule: "alpha", value: "a", want: true},
		{name: "alpha single digit", rule: "alpha", value: "1", want: false},
		{name: "alpha multi char", rule: "alpha", value: "12", want: true},
		{name: "alphaNum digit", rule: "alphaNum", value: "1", want: true},
		{name: "alphaNum symbol", rule: "alphaNum", value: "-", want: false},

		{name: "chs", rule: "chs", value: "中文", want: true},
		{name: "chs mixed", rule: "chs", value: "中a", want: false},
		{name: "chsAlpha", rule: "chsAlpha", value: "中a", want: true},
		{name: "chsAlpha digit", rule: "chsAlpha", value: "中1", want: false},
		{name: "chsAlphaNum", rule: "chsAlphaNum", value: "中a1", want: true},
		{name: "chsAlphaNum symbol", rule: "chsAlphaNum", value: "中-", want: false},

		{name: "array slice", rule: "array", value: []any{1}, want: true},
		{name: "array typed", rule: "array", value: []string{"a"}, want: true},
		{name: "array string", rule: "array", value: "a", want: false},
		{name: "object map", rule: "object", value: map[string]any{"a": 1}, want: true},
		{name: "object struct", rule: "object", value: struct{ A int }{1}, want: true},
		{name: "object slice", rule: "object", value: []any{1}, want: false},
		{name: "func", rule: "func", value: func() {}, want: true},
		{name: "function text", rule: "function", value: "f", want: false},

		{name: "mobile", rule: "mobile", value: "13812345678", want: true},
		{name: "mobile bad prefix", rule: "mobile", value: "12812345678", want: false},
		{name: "email", rule: "email", value: "foo.bar@example.com", want: true},
		{name: "email missing domain", rule: "email", value: "foo@", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkValue(t, New(), tt.value, Rules(tt.rule)); got != tt.want {
				t.Errorf("%s(%#v) = %v, want %v", tt.rule, tt.value, got, tt.want)
			}
		})
	}
}

func TestBuiltinHas(t *testing.T) {
	v := New()
	rules := RuleSet{Field("nick", Rules("has"))}

	ok, err := v.CheckRules(map[string]any{"nick": ""}, rules)
	if err != nil {
		t.Fatalf("CheckRules: %v", err)
	}
	if !ok {
		t.Errorf("has should pass for a present empty value")
	}

	ok, err = v.CheckRules(map[string]any{}, rules)
	if err != nil {
		t.Fatalf("CheckRules: %v", err)
	}
	if ok {
		t.Errorf("has should fail for a missing value")
	}
	if msg, _ := v.Error().Get("nick"); msg != "has nick" {
		t.Errorf("message = %q, want %q", msg, "has nick")
	}
}
