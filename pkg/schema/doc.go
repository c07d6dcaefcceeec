// Package schema compiles declarative validation rules into step validators.
//
// Flow documents describe validation as data instead of code:
//
//	validation:
//	  min_length: 2
//	  message: Name must be at least 2 characters
//
//	validation:
//	  expr: value >= 13 && value <= 120
//	  message: Please enter a valid age between 13 and 120
//
// Compile turns such a Spec into a domain.ValidateFunc. Rules run in a fixed
// order (type bounds, lengths, pattern, expression) and the first failure wins.
// When the Spec carries a Message it replaces the rule's own reason, so flow
// authors control the text shown to users.
//
// Expressions are evaluated with expr-lang. The candidate is bound to `value`
// as a plain Go value (string, float64, []string or the custom payload), and
// the expression must return a bool.
//
// Rules can also be built programmatically and combined with Chain:
//
//	validate := schema.Chain(schema.Min(13), schema.Max(120))
package schema
