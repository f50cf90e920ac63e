// Package validate provides a declarative validation engine for nested data.
//
// A Validator evaluates a RuleSet (an ordered list of field → rule spec
// pairs) against arbitrary data built from maps, slices, structs and scalars.
// Field keys use dot notation to address nested values ("user.address.zip").
//
// # Rule Grammar
//
// A field's rules are written as a pipe-delimited string, an ordered list of
// tokens, or a single Go function:
//
//	rules := validate.RuleSet{
//	    validate.Field("name", validate.Rules("require|max:25")),
//	    validate.Field("age", validate.Tokens(
//	        validate.T("number"),
//	        validate.Op(">=", "min_age"),
//	    )),
//	    validate.Field("ip", validate.Rules("ip")),
//	}
//
// Each token is one of:
//   - a bare rule name ("require", "number", or a registered regex/type name)
//   - a parameterized rule ("max:10", "in:a,b,c", "length:2,5")
//   - a keyed token whose key is a rule name or operator alias
//     (">=", ">", "=", "<", "<=", "!=", "<>") and whose parameter is carried
//     unchanged, typically another field path
//   - an inline Predicate
//
// # Evaluation
//
// Rules run in order and the first failing token stops evaluation of that
// field. Every rule except require and has is skipped when the field value is
// empty (see IsEmpty); the number 0 is never skipped.
//
// In batch mode (the default) every field is checked and failures are
// collected per field. With Batch(false) the check stops at the first
// failing field and the report carries a single message.
//
// # Errors
//
// Validation failures are data, returned through Report. A rule name that no
// builtin, regex, custom type or inline function can serve is a programmer
// error: Check returns an *UnknownRuleError instead of recording a message.
// Malformed numeric rule parameters (between without a comma, max with a
// non-numeric bound) log a warning and fail only the affected rule.
//
// # Thread Safety
//
// A Validator is not safe for concurrent use. Configure it before calling
// Check, and use Clone to hand independent copies to other goroutines.
package validate
