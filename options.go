package onboard

import (
	"log/slog"

	"github.com/aretw0/onboard/pkg/domain"
)

// Option defines a functional option for configuring the Wizard.
type Option func(*Wizard)

// WithLogger sets a custom structured logger for the wizard.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithLifecycleHooks registers the output event hooks
// (stepChanged, validationFailed, completed).
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Wizard) {
		w.hooks = domain.MergeHooks(w.hooks, hooks)
	}
}

// WithOnComplete registers the completion callback. It is invoked exactly once
// with the final answers, after the wizard has become Completed.
func WithOnComplete(fn func(domain.Answers)) Option {
	return func(w *Wizard) {
		w.onComplete = fn
	}
}

// WithTheme overrides the flow's styling bundle. The engine never reads it.
func WithTheme(theme domain.Theme) Option {
	return func(w *Wizard) {
		w.flow.Theme = theme
	}
}

// WithName sets the flow name used in views and log lines.
func WithName(name string) Option {
	return func(w *Wizard) {
		w.flow.Name = name
	}
}

// WithSnapshot resumes the wizard at a previously captured position.
func WithSnapshot(s domain.Snapshot) Option {
	return func(w *Wizard) {
		w.restore = &s
	}
}
