package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/pkg/domain"
)

// Controller owns the ordered step list, the current position and the
// committed answers of one flow. It is not safe for concurrent use; hosts
// serialize access per flow.
type Controller struct {
	name       string
	steps      []domain.Step
	index      int
	status     domain.Status
	answers    domain.Answers
	hooks      domain.LifecycleHooks
	onComplete func(domain.Answers)
	logger     *slog.Logger
	restore    *domain.Snapshot
}

// Option configures a Controller.
type Option func(*Controller)

// WithName labels log lines with the flow name.
func WithName(name string) Option {
	return func(c *Controller) {
		c.name = name
	}
}

// WithHooks registers the output event hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithOnComplete registers the completion callback. It runs at most once,
// after the controller has become Completed.
func WithOnComplete(fn func(domain.Answers)) Option {
	return func(c *Controller) {
		c.onComplete = fn
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSnapshot resumes from a previously captured position.
func WithSnapshot(s domain.Snapshot) Option {
	return func(c *Controller) {
		c.restore = &s
	}
}

// NewController creates a controller at Active(0) with no answers.
func NewController(steps []domain.Step, opts ...Option) (*Controller, error) {
	if len(steps) == 0 {
		return nil, domain.ErrEmptyFlow
	}
	c := &Controller{
		steps:  domain.CloneSteps(steps),
		status: domain.StatusActive,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.restore != nil {
		if c.restore.Index < 0 || c.restore.Index >= len(c.steps) {
			return nil, &OutOfRangeError{Index: c.restore.Index, Len: len(c.steps)}
		}
		c.index = c.restore.Index
		c.answers = c.restore.Answers
		if c.restore.Status == domain.StatusCompleted {
			c.status = domain.StatusCompleted
		}
		c.restore = nil
	}
	return c, nil
}

// OutOfRangeError is re-exported so callers of this package can match it
// without importing domain.
type OutOfRangeError = domain.OutOfRangeError

// Current returns the step at the current index.
func (c *Controller) Current() (domain.Step, error) {
	if c.status == domain.StatusCompleted {
		return domain.Step{}, domain.ErrFlowCompleted
	}
	if c.index < 0 || c.index >= len(c.steps) {
		return domain.Step{}, &OutOfRangeError{Index: c.index, Len: len(c.steps)}
	}
	return c.steps[c.index], nil
}

// Index returns the current position.
func (c *Controller) Index() int { return c.index }

// Len returns the number of steps.
func (c *Controller) Len() int { return len(c.steps) }

// Steps returns a copy of the step definitions.
func (c *Controller) Steps() []domain.Step { return domain.CloneSteps(c.steps) }

// Status returns Active or Completed.
func (c *Controller) Status() domain.Status { return c.status }

// Answers returns the committed answers. The snapshot is never mutated afterwards.
func (c *Controller) Answers() domain.Answers { return c.answers }

// Progress returns (index+1)/len, in (0, 1].
func (c *Controller) Progress() float64 {
	if c.status == domain.StatusCompleted {
		return 1
	}
	return float64(c.index+1) / float64(len(c.steps))
}

// Advance validates candidate against the current step, commits it and moves
// forward or completes the flow. A rejected candidate leaves all state untouched.
func (c *Controller) Advance(candidate domain.Answer) (domain.Event, error) {
	step, err := c.Current()
	if err != nil {
		return domain.Event{}, err
	}

	if verr := Check(step, candidate); verr != nil {
		c.logger.Debug("advance rejected",
			"flow", c.name,
			"step", step.ID,
			"reason", verr.Reason,
		)
		if c.hooks.OnValidationFailed != nil {
			c.hooks.OnValidationFailed(verr)
		}
		return domain.Event{}, verr
	}

	c.answers = c.answers.With(step.ID, candidate)

	if c.index == len(c.steps)-1 {
		c.status = domain.StatusCompleted
		final := c.answers
		c.logger.Debug("flow completed", "flow", c.name, "answers", final.Len())
		if c.hooks.OnCompleted != nil {
			c.hooks.OnCompleted(final)
		}
		if c.onComplete != nil {
			fn := c.onComplete
			c.onComplete = nil
			fn(final)
		}
		return domain.Event{Type: domain.EventCompleted, Index: c.index, Answers: final}, nil
	}

	c.index++
	c.logger.Debug("step advanced", "flow", c.name, "step", step.ID, "index", c.index)
	c.emitStepChanged()
	return domain.Event{Type: domain.EventAdvanced, Index: c.index}, nil
}

// Back moves to the previous step. Committed answers are kept so the renderer
// can pre-populate the step. On the first step it returns ErrNoOp.
func (c *Controller) Back() (domain.Event, error) {
	if c.status == domain.StatusCompleted {
		return domain.Event{}, domain.ErrFlowCompleted
	}
	if c.index == 0 {
		return domain.Event{}, domain.ErrNoOp
	}
	if c.index >= len(c.steps) {
		return domain.Event{}, fmt.Errorf("back: %w", &OutOfRangeError{Index: c.index, Len: len(c.steps)})
	}
	c.index--
	c.logger.Debug("step back", "flow", c.name, "index", c.index)
	c.emitStepChanged()
	return domain.Event{Type: domain.EventBack, Index: c.index}, nil
}

func (c *Controller) emitStepChanged() {
	if c.hooks.OnStepChanged != nil {
		c.hooks.OnStepChanged(domain.StepEvent{Index: c.index, Step: c.steps[c.index]})
	}
}
