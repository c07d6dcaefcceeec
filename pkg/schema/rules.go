package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a single check over a candidate answer.
type Rule interface {
	// Name returns the rule key as used in flow documents (e.g. "min").
	Name() string
	// Check returns a *RuleError when the candidate is rejected.
	Check(a domain.Answer) error
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc struct {
	name string
	fn   func(domain.Answer) error
}

// Custom creates a named rule from fn.
func Custom(name string, fn func(domain.Answer) error) Rule {
	return &RuleFunc{name: name, fn: fn}
}

func (r *RuleFunc) Name() string { return r.name }

func (r *RuleFunc) Check(a domain.Answer) error {
	if err := r.fn(a); err != nil {
		return &RuleError{Rule: r.name, Reason: err.Error()}
	}
	return nil
}

type minRule struct{ bound float64 }

// Min requires a number greater than or equal to bound.
func Min(bound float64) Rule { return &minRule{bound: bound} }

func (r *minRule) Name() string { return "min" }

func (r *minRule) Check(a domain.Answer) error {
	n, ok := a.AsNumber()
	if !ok {
		return &RuleError{Rule: r.Name(), Reason: "must be a number"}
	}
	if n < r.bound {
		return &RuleError{Rule: r.Name(), Reason: "must be at least " + formatFloat(r.bound)}
	}
	return nil
}

type maxRule struct{ bound float64 }

// Max requires a number less than or equal to bound.
func Max(bound float64) Rule { return &maxRule{bound: bound} }

func (r *maxRule) Name() string { return "max" }

func (r *maxRule) Check(a domain.Answer) error {
	n, ok := a.AsNumber()
	if !ok {
		return &RuleError{Rule: r.Name(), Reason: "must be a number"}
	}
	if n > r.bound {
		return &RuleError{Rule: r.Name(), Reason: "must be at most " + formatFloat(r.bound)}
	}
	return nil
}

type lengthRule struct {
	name  string
	bound int
	min   bool
}

// MinLength requires at least n characters (trimmed text) or n selected items.
func MinLength(n int) Rule { return &lengthRule{name: "min_length", bound: n, min: true} }

// MaxLength allows at most n characters (trimmed text) or n selected items.
func MaxLength(n int) Rule { return &lengthRule{name: "max_length", bound: n} }

func (r *lengthRule) Name() string { return r.name }

func (r *lengthRule) Check(a domain.Answer) error {
	size, unit := 0, "characters"
	switch a.Kind() {
	case domain.KindString, domain.KindNone:
		s, _ := a.AsString()
		size = utf8.RuneCountInString(strings.TrimSpace(s))
	case domain.KindList:
		items, _ := a.AsList()
		size, unit = len(items), "selections"
	default:
		return &RuleError{Rule: r.name, Reason: "has no length"}
	}
	if r.min && size < r.bound {
		return &RuleError{Rule: r.name, Reason: fmt.Sprintf("must have at least %d %s", r.bound, unit)}
	}
	if !r.min && size > r.bound {
		return &RuleError{Rule: r.name, Reason: fmt.Sprintf("must have at most %d %s", r.bound, unit)}
	}
	return nil
}

type patternRule struct{ re *regexp.Regexp }

// Pattern requires text matching re.
func Pattern(re *regexp.Regexp) Rule { return &patternRule{re: re} }

func (r *patternRule) Name() string { return "pattern" }

func (r *patternRule) Check(a domain.Answer) error {
	s, ok := a.AsString()
	if !ok || !r.re.MatchString(s) {
		return &RuleError{Rule: r.Name(), Reason: "does not match " + r.re.String()}
	}
	return nil
}

type exprRule struct {
	source  string
	program *vm.Program
}

// Expr compiles a boolean expr-lang expression over `value`.
func Expr(source string) (Rule, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", source, err)
	}
	return &exprRule{source: source, program: program}, nil
}

func (r *exprRule) Name() string { return "expr" }

func (r *exprRule) Check(a domain.Answer) error {
	env := map[string]any{
		"value": a.Value(),
		"kind":  a.Kind().String(),
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return &RuleError{Rule: r.Name(), Reason: "cannot evaluate " + r.source}
	}
	if ok, _ := out.(bool); !ok {
		return &RuleError{Rule: r.Name(), Reason: "does not satisfy " + r.source}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
