package domain

import (
	"errors"
	"fmt"
)

// ErrNoOp is returned by Back on the first step. Renderers should hide the
// back control instead of surfacing it.
var ErrNoOp = errors.New("no-op: already at the first step")

// ErrFlowCompleted is returned by any operation issued after the flow reached
// its terminal state. It indicates a collaborator bug.
var ErrFlowCompleted = errors.New("flow already completed")

// ErrEmptyFlow is returned when a flow is built without steps.
var ErrEmptyFlow = errors.New("flow has no steps")

// ErrWrongStepType is returned when an input event does not match the current step type.
var ErrWrongStepType = errors.New("input does not apply to this step type")

// ErrUnknownOption is returned when a selection references a value that is not an option.
var ErrUnknownOption = errors.New("unknown option")

// ErrInvalidInput is returned when an input event carries an unusable value.
var ErrInvalidInput = errors.New("invalid input")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowNotFound is returned when a loader has no flow with the requested name.
var ErrFlowNotFound = errors.New("flow not found")

// ValidationReason classifies a rejected advance.
type ValidationReason string

const (
	// ReasonIncomplete: the candidate does not satisfy the step's completeness rule.
	ReasonIncomplete ValidationReason = "incomplete"
	// ReasonInvalid: the step's validation predicate rejected the candidate.
	ReasonInvalid ValidationReason = "invalid"
	// ReasonMismatch: the candidate variant cannot belong to the step type.
	ReasonMismatch ValidationReason = "mismatch"
)

// ValidationError is the recoverable error of a rejected advance.
// Flow state is unchanged when it is returned.
type ValidationError struct {
	StepID  string
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("step %q: %s", e.StepID, e.Message)
	}
	return fmt.Sprintf("step %q: %s", e.StepID, e.Reason)
}

// UserMessage returns the text a renderer should display inline.
func (e *ValidationError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Reason {
	case ReasonIncomplete:
		return "Please complete this step to continue."
	case ReasonMismatch:
		return "This answer does not fit this step."
	}
	return "This answer is not valid."
}

// OutOfRangeError signals a current index outside the step list.
// It is an invariant violation and never expected in normal operation.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("step index %d out of range [0, %d)", e.Index, e.Len)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
