package runtime

import (
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// acceptsKind reports whether an answer variant can belong to a step type.
// number-input also accepts strings: an unparseable entry is kept raw so the
// step's validation can reject it with its own message.
func acceptsKind(t domain.StepType, k domain.AnswerKind) bool {
	if k == domain.KindNone {
		return true
	}
	switch t {
	case domain.StepSingleChoice, domain.StepTextInput:
		return k == domain.KindString
	case domain.StepNumberInput:
		return k == domain.KindNumber || k == domain.KindString
	case domain.StepMultiChoice:
		return k == domain.KindList
	case domain.StepCustom:
		return true
	}
	return false
}

// Complete applies the completeness rule of step to candidate.
func Complete(step domain.Step, candidate domain.Answer) bool {
	switch step.Type {
	case domain.StepSingleChoice:
		v, ok := candidate.AsString()
		return ok && step.HasOption(v)
	case domain.StepMultiChoice:
		values, ok := candidate.AsList()
		return ok && len(values) > 0 && allOptions(step, values)
	case domain.StepTextInput:
		if step.Validate != nil {
			return true
		}
		v, ok := candidate.AsString()
		return ok && strings.TrimSpace(v) != ""
	case domain.StepNumberInput:
		_, ok := candidate.AsNumber()
		return ok
	case domain.StepCustom:
		return true
	}
	return false
}

// wellFormed checks a non-empty answer of an optional step. Skipping a step is
// allowed; committing a selection of unknown options or an unparsed number is not.
func wellFormed(step domain.Step, candidate domain.Answer) bool {
	switch step.Type {
	case domain.StepSingleChoice:
		v, _ := candidate.AsString()
		return step.HasOption(v)
	case domain.StepMultiChoice:
		values, _ := candidate.AsList()
		return allOptions(step, values)
	case domain.StepNumberInput:
		if step.Validate != nil {
			return true
		}
		_, ok := candidate.AsNumber()
		return ok
	}
	return true
}

func allOptions(step domain.Step, values []string) bool {
	for _, v := range values {
		if !step.HasOption(v) {
			return false
		}
	}
	return true
}

// Check runs the advance pipeline for a candidate without touching any state:
// variant check, then the step's validation, then the completeness rule.
// It returns nil when the candidate may be committed.
func Check(step domain.Step, candidate domain.Answer) *domain.ValidationError {
	if !acceptsKind(step.Type, candidate.Kind()) {
		return &domain.ValidationError{
			StepID:  step.ID,
			Reason:  domain.ReasonMismatch,
			Message: "a " + candidate.Kind().String() + " answer does not fit a " + string(step.Type) + " step",
		}
	}

	if step.Validate != nil {
		if err := step.Validate(candidate); err != nil {
			return &domain.ValidationError{
				StepID:  step.ID,
				Reason:  domain.ReasonInvalid,
				Message: err.Error(),
			}
		}
	}

	if step.Required() {
		if !Complete(step, candidate) {
			return &domain.ValidationError{StepID: step.ID, Reason: domain.ReasonIncomplete}
		}
		return nil
	}

	if !candidate.IsEmpty() && !wellFormed(step, candidate) {
		return &domain.ValidationError{StepID: step.ID, Reason: domain.ReasonIncomplete}
	}
	return nil
}
