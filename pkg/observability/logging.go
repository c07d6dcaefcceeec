package observability

import (
	"log/slog"

	"github.com/aretw0/onboard/pkg/domain"
)

// LoggingHooks logs every output event of a flow at debug level.
func LoggingHooks(logger *slog.Logger, flow string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepChanged: func(e domain.StepEvent) {
			logger.Debug("step changed", "flow", flow, "index", e.Index, "step", e.Step.ID)
		},
		OnValidationFailed: func(err *domain.ValidationError) {
			logger.Debug("validation failed", "flow", flow, "step", err.StepID, "reason", err.Reason, "message", err.UserMessage())
		},
		OnCompleted: func(a domain.Answers) {
			logger.Info("flow completed", "flow", flow, "answers", a.Len())
		},
	}
}
