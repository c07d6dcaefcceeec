package runner

import (
	"context"
	"errors"

	"github.com/aretw0/onboard/pkg/domain"
)

var (
	// ErrAbandoned is returned when the user quits before completing the flow.
	ErrAbandoned = errors.New("flow abandoned")
	// ErrInterrupted is returned when the run is cancelled by a signal.
	ErrInterrupted = errors.New("interrupted")
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text, JSON and interactive form modes.
type IOHandler interface {
	// Render presents the view: the current step, or the final answers once completed.
	Render(ctx context.Context, view domain.View) error

	// Input reads the user's next action on the view as a batch of input events,
	// e.g. [select, advance]. Returning ErrAbandoned ends the run.
	// Errors wrapping domain.ErrInvalidInput are reported and the step is asked again.
	Input(ctx context.Context, view domain.View) ([]domain.InputEvent, error)

	// SystemOutput presents a meta-message to the user (e.g. rejected input).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for terminal rendering (markdown to ANSI) without coupling the runner.
type ContentRenderer func(string) (string, error)
