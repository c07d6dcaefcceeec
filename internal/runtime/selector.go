package runtime

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// Selector is the candidate buffer of the step in progress. It turns raw
// input events into a candidate Answer and never touches committed answers.
type Selector struct {
	step      domain.Step
	candidate domain.Answer
}

// NewSelector creates a buffer for step, pre-populated with prior
// (the stored answer when the user navigates back to a step).
func NewSelector(step domain.Step, prior domain.Answer) *Selector {
	return &Selector{step: step, candidate: prior}
}

// Step returns the step being answered.
func (s *Selector) Step() domain.Step { return s.step }

// Candidate returns the current candidate.
func (s *Selector) Candidate() domain.Answer { return s.candidate }

// Reset clears the candidate.
func (s *Selector) Reset() { s.candidate = domain.None() }

// Select makes value the single active choice, replacing any previous one.
func (s *Selector) Select(value string) error {
	if s.step.Type != domain.StepSingleChoice {
		return s.wrongType("select")
	}
	if !s.step.HasOption(value) {
		return fmt.Errorf("%w: %q on step %q", domain.ErrUnknownOption, value, s.step.ID)
	}
	s.candidate = domain.String(value)
	return nil
}

// Toggle removes value from the selection if present, or appends it.
// The relative order of the remaining values is preserved.
func (s *Selector) Toggle(value string) error {
	if s.step.Type != domain.StepMultiChoice {
		return s.wrongType("toggle")
	}
	if !s.step.HasOption(value) {
		return fmt.Errorf("%w: %q on step %q", domain.ErrUnknownOption, value, s.step.ID)
	}
	current, _ := s.candidate.AsList()
	next := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}
	s.candidate = domain.List(next...)
	return nil
}

// SetText stores the raw text of a text-input step.
func (s *Selector) SetText(text string) error {
	if s.step.Type != domain.StepTextInput {
		return s.wrongType("text")
	}
	s.candidate = domain.String(text)
	return nil
}

// SetNumber stores the value of a number-input step. Strings are parsed;
// a string that does not parse is kept as-is.
func (s *Selector) SetNumber(v any) error {
	if s.step.Type != domain.StepNumberInput {
		return s.wrongType("number")
	}
	a, err := ParseNumber(v)
	if err != nil {
		return err
	}
	s.candidate = a
	return nil
}

// SetCustom stores the payload of a custom step.
func (s *Selector) SetCustom(v any) error {
	if s.step.Type != domain.StepCustom {
		return s.wrongType("custom")
	}
	if v == nil {
		s.candidate = domain.None()
		return nil
	}
	s.candidate = domain.Opaque(v)
	return nil
}

// Complete reports whether the candidate satisfies the completeness rule.
func (s *Selector) Complete() bool {
	return Complete(s.step, s.candidate)
}

// CanAdvance reports whether advancing with the candidate would succeed.
func (s *Selector) CanAdvance() bool {
	return Check(s.step, s.candidate) == nil
}

func (s *Selector) wrongType(event string) error {
	return fmt.Errorf("%w: %s event on %s step %q", domain.ErrWrongStepType, event, s.step.Type, s.step.ID)
}

// ParseNumber converts raw number input into a candidate. Empty text clears
// the candidate, text that is not a finite number is kept as a raw String.
func ParseNumber(v any) (domain.Answer, error) {
	switch x := v.(type) {
	case nil:
		return domain.None(), nil
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return domain.Number(float64(x)), nil
	case int32:
		return domain.Number(float64(x)), nil
	case int64:
		return domain.Number(float64(x)), nil
	case uint:
		return domain.Number(float64(x)), nil
	case json.Number:
		return ParseNumber(x.String())
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return domain.None(), nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.String(x), nil
		}
		return domain.Number(f), nil
	}
	return domain.Answer{}, fmt.Errorf("%w: %T is not a number", domain.ErrInvalidInput, v)
}

func finite(f float64) (domain.Answer, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Answer{}, fmt.Errorf("%w: %v is not a finite number", domain.ErrInvalidInput, f)
	}
	return domain.Number(f), nil
}
