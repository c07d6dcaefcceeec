package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/aretw0/onboard/pkg/domain"
)

// Spec is the declarative validation block of a step.
type Spec struct {
	Min       *float64 `json:"min,omitempty" mapstructure:"min"`
	Max       *float64 `json:"max,omitempty" mapstructure:"max"`
	MinLength *int     `json:"min_length,omitempty" mapstructure:"min_length"`
	MaxLength *int     `json:"max_length,omitempty" mapstructure:"max_length"`
	Pattern   string   `json:"pattern,omitempty" mapstructure:"pattern"`
	Expr      string   `json:"expr,omitempty" mapstructure:"expr"`
	Message   string   `json:"message,omitempty" mapstructure:"message"`
}

// IsZero reports whether the spec declares no rule.
func (s Spec) IsZero() bool {
	return s.Min == nil && s.Max == nil && s.MinLength == nil && s.MaxLength == nil &&
		s.Pattern == "" && s.Expr == ""
}

// Rules builds the rules declared by s, in evaluation order.
// Every malformed entry is reported, not just the first.
func (s Spec) Rules() ([]Rule, error) {
	var rules []Rule
	var errs []error

	if s.Min != nil {
		rules = append(rules, Min(*s.Min))
	}
	if s.Max != nil {
		rules = append(rules, Max(*s.Max))
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		errs = append(errs, fmt.Errorf("min %v is greater than max %v", *s.Min, *s.Max))
	}
	if s.MinLength != nil {
		if *s.MinLength < 0 {
			errs = append(errs, errors.New("min_length must not be negative"))
		}
		rules = append(rules, MinLength(*s.MinLength))
	}
	if s.MaxLength != nil {
		if *s.MaxLength < 0 {
			errs = append(errs, errors.New("max_length must not be negative"))
		}
		rules = append(rules, MaxLength(*s.MaxLength))
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern: %w", err))
		} else {
			rules = append(rules, Pattern(re))
		}
	}
	if s.Expr != "" {
		r, err := Expr(s.Expr)
		if err != nil {
			errs = append(errs, err)
		} else {
			rules = append(rules, r)
		}
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return rules, nil
}

// Compile returns a validator for s, or nil when s declares no rule.
func Compile(s Spec) (domain.ValidateFunc, error) {
	if s.IsZero() {
		return nil, nil
	}
	rules, err := s.Rules()
	if err != nil {
		return nil, err
	}
	validate := Chain(rules...)
	if s.Message == "" {
		return validate, nil
	}
	return func(a domain.Answer) error {
		err := validate(a)
		var re *RuleError
		if errors.As(err, &re) {
			return &RuleError{Rule: re.Rule, Reason: re.Reason, Message: s.Message}
		}
		return err
	}, nil
}

// Chain runs rules in order and returns the first failure.
func Chain(rules ...Rule) domain.ValidateFunc {
	return func(a domain.Answer) error {
		for _, r := range rules {
			if err := r.Check(a); err != nil {
				return err
			}
		}
		return nil
	}
}

// SkipEmpty wraps fn so an empty candidate is accepted without running it.
// Optional steps use it so that leaving a field blank is not a rule violation.
func SkipEmpty(fn domain.ValidateFunc) domain.ValidateFunc {
	if fn == nil {
		return nil
	}
	return func(a domain.Answer) error {
		if a.IsEmpty() {
			return nil
		}
		return fn(a)
	}
}
