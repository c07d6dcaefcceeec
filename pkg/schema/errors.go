package schema

import (
	"errors"
	"fmt"
)

// RuleError is returned by a rule that rejects a candidate.
type RuleError struct {
	Rule    string // Rule name, e.g. "min_length"
	Reason  string // Human-readable reason for failure
	Message string // Author supplied override, if any
}

func (e *RuleError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

// AggregateError represents multiple failures, e.g. several invalid rule specs.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the wrapped errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// Errors returns all errors if err is an AggregateError, or err itself otherwise.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}
