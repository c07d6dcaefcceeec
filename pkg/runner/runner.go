package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/pkg/domain"
)

// Runner handles the execution loop of a Wizard using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text, JSON, forms).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input/Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Input and Output back the default TextHandler.
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the wizard until it completes, the user abandons it (ErrAbandoned)
// or ctx is cancelled / a signal arrives (ErrInterrupted). The committed answers
// are returned in every case.
func (r *Runner) Run(ctx context.Context, w *onboard.Wizard) (domain.Answers, error) {
	handler := r.resolveHandler()
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	for {
		currentCtx := signals.Context()

		view := w.View()
		if err := handler.Render(currentCtx, view); err != nil {
			return w.Answers(), fmt.Errorf("render error: %w", err)
		}
		if view.Completed() {
			logger.Debug("flow completed", "flow", view.Flow, "answers", w.Answers().Len())
			return w.Answers(), nil
		}

		events, err := handler.Input(currentCtx, view)
		if err != nil {
			signals.CheckRace()
			switch {
			case currentCtx.Err() != nil:
				logger.Debug("runner input: context cancelled", "err", currentCtx.Err())
				return w.Answers(), ErrInterrupted
			case errors.Is(err, ErrAbandoned), errors.Is(err, io.EOF):
				logger.Debug("flow abandoned", "flow", view.Flow, "index", view.Index)
				return w.Answers(), ErrAbandoned
			case errors.Is(err, domain.ErrInvalidInput):
				if err := handler.SystemOutput(currentCtx, err.Error()); err != nil {
					return w.Answers(), err
				}
				continue
			}
			return w.Answers(), fmt.Errorf("input error: %w", err)
		}

		if err := r.apply(currentCtx, w, handler, events, logger); err != nil {
			return w.Answers(), err
		}
	}
}

// apply dispatches events in order and stops at the first rejected one.
// Validation failures are shown by the next Render through View().Error.
func (r *Runner) apply(ctx context.Context, w *onboard.Wizard, handler IOHandler, events []domain.InputEvent, logger *slog.Logger) error {
	for _, ev := range events {
		_, err := w.Dispatch(ev)
		if err == nil {
			continue
		}
		logger.Debug("input event rejected", "event", ev.Type, "index", w.Index(), "err", err)

		switch {
		case domain.IsValidation(err):
			return nil
		case errors.Is(err, domain.ErrNoOp):
			return handler.SystemOutput(ctx, "Already at the first step.")
		case errors.Is(err, domain.ErrUnknownOption),
			errors.Is(err, domain.ErrWrongStepType),
			errors.Is(err, domain.ErrInvalidInput):
			return handler.SystemOutput(ctx, err.Error())
		}
		return fmt.Errorf("dispatch %s: %w", ev.Type, err)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(r.Renderer))
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
