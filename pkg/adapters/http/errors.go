package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/runner"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Code      string       `json:"code,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
	View      *domain.View `json:"view,omitempty"`
}

// statusFor maps engine errors to HTTP status codes and short codes.
func statusFor(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, domain.ErrFlowCompleted):
		return http.StatusConflict, "flow_completed"
	case errors.Is(err, domain.ErrNoOp):
		return http.StatusConflict, "no_op"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrFlowNotFound):
		return http.StatusNotFound, "flow_not_found"
	case errors.Is(err, domain.ErrUnknownOption):
		return http.StatusBadRequest, "unknown_option"
	case errors.Is(err, domain.ErrWrongStepType):
		return http.StatusBadRequest, "wrong_step_type"
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest, "invalid_input"
	}
	return http.StatusInternalServerError, "internal"
}

// userMessage prefers the message meant for end users on validation failures.
func userMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.UserMessage()
	}
	return err.Error()
}
