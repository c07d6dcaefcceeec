package onboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/internal/runtime"
	"github.com/aretw0/onboard/internal/validator"
	"github.com/aretw0/onboard/pkg/domain"
)

// Wizard is the high-level entry point of the library. It pairs the flow
// controller with the candidate buffer of the current step, so a renderer
// only has to forward raw input events and display View().
//
// A Wizard is not safe for concurrent use.
type Wizard struct {
	flow       domain.Flow
	ctrl       *runtime.Controller
	sel        *runtime.Selector
	hooks      domain.LifecycleHooks
	onComplete func(domain.Answers)
	logger     *slog.Logger
	restore    *domain.Snapshot
	lastErr    *domain.ValidationError
}

// New creates a wizard over an ordered list of step definitions.
func New(steps []domain.Step, opts ...Option) (*Wizard, error) {
	return NewFromFlow(domain.Flow{Steps: steps}, opts...)
}

// NewFromFlow creates a wizard for a flow. The step definitions are checked
// first; duplicate ids, unknown types or duplicate option values abort construction.
func NewFromFlow(flow domain.Flow, opts ...Option) (*Wizard, error) {
	flow.Steps = domain.CloneSteps(flow.Steps)
	w := &Wizard{
		flow:   flow,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if len(w.flow.Steps) == 0 {
		return nil, domain.ErrEmptyFlow
	}
	report := validator.ValidateFlow(w.flow.Steps)
	if err := report.Err(); err != nil {
		return nil, fmt.Errorf("invalid flow %q: %w", w.flow.Name, err)
	}
	for _, warn := range report.Warnings {
		w.logger.Warn("flow definition", "flow", w.flow.Name, "step", warn.StepID, "warning", warn.Message)
	}

	userStepChanged := w.hooks.OnStepChanged
	hooks := w.hooks
	hooks.OnStepChanged = func(e domain.StepEvent) {
		// The buffer must follow the controller before observers render.
		w.resetSelector(e.Step)
		if userStepChanged != nil {
			userStepChanged(e)
		}
	}

	ctrlOpts := []runtime.Option{
		runtime.WithName(w.flow.Name),
		runtime.WithLogger(w.logger),
		runtime.WithHooks(hooks),
		runtime.WithOnComplete(w.onComplete),
	}
	if w.restore != nil {
		ctrlOpts = append(ctrlOpts, runtime.WithSnapshot(*w.restore))
	}

	ctrl, err := runtime.NewController(w.flow.Steps, ctrlOpts...)
	if err != nil {
		return nil, err
	}
	w.ctrl = ctrl

	if step, err := ctrl.Current(); err == nil {
		w.resetSelector(step)
		if w.restore != nil && !w.restore.Candidate.IsEmpty() {
			w.sel = runtime.NewSelector(step, w.restore.Candidate)
		}
	}
	w.restore = nil
	return w, nil
}

func (w *Wizard) resetSelector(step domain.Step) {
	prior, _ := w.ctrl.Answers().Get(step.ID)
	w.sel = runtime.NewSelector(step, prior)
	w.lastErr = nil
}

// Flow returns the flow definition.
func (w *Wizard) Flow() domain.Flow {
	flow := w.flow
	flow.Steps = domain.CloneSteps(flow.Steps)
	return flow
}

// Name returns the flow name.
func (w *Wizard) Name() string { return w.flow.Name }

// Current returns the step being answered.
func (w *Wizard) Current() (domain.Step, error) { return w.ctrl.Current() }

// Index returns the current position.
func (w *Wizard) Index() int { return w.ctrl.Index() }

// Len returns the number of steps.
func (w *Wizard) Len() int { return w.ctrl.Len() }

// Progress returns (index+1)/len.
func (w *Wizard) Progress() float64 { return w.ctrl.Progress() }

// Answers returns the committed answers.
func (w *Wizard) Answers() domain.Answers { return w.ctrl.Answers() }

// Status returns Active or Completed.
func (w *Wizard) Status() domain.Status { return w.ctrl.Status() }

// Completed reports whether the flow reached its terminal state.
func (w *Wizard) Completed() bool { return w.ctrl.Status() == domain.StatusCompleted }

// Candidate returns the in-progress answer of the current step.
func (w *Wizard) Candidate() domain.Answer {
	if w.Completed() {
		return domain.None()
	}
	return w.sel.Candidate()
}

// CanAdvance reports whether RequestAdvance would succeed. Renderers use it
// to enable the continue control.
func (w *Wizard) CanAdvance() bool {
	return !w.Completed() && w.sel.CanAdvance()
}

// CanGoBack reports whether a back control should be offered.
func (w *Wizard) CanGoBack() bool {
	return !w.Completed() && w.ctrl.Index() > 0
}

// Check evaluates candidate against the current step without changing anything.
func (w *Wizard) Check(candidate domain.Answer) error {
	step, err := w.ctrl.Current()
	if err != nil {
		return err
	}
	if verr := runtime.Check(step, candidate); verr != nil {
		return verr
	}
	return nil
}

// SelectOption makes value the active choice of a single-choice step.
func (w *Wizard) SelectOption(value string) error {
	return w.edit(func(s *runtime.Selector) error { return s.Select(value) })
}

// ToggleOption adds or removes value on a multi-choice step.
func (w *Wizard) ToggleOption(value string) error {
	return w.edit(func(s *runtime.Selector) error { return s.Toggle(value) })
}

// SetText sets the raw text of a text-input step.
func (w *Wizard) SetText(text string) error {
	return w.edit(func(s *runtime.Selector) error { return s.SetText(text) })
}

// SetNumber sets the value of a number-input step. Strings are parsed and kept
// raw when they are not numbers.
func (w *Wizard) SetNumber(v any) error {
	return w.edit(func(s *runtime.Selector) error { return s.SetNumber(v) })
}

// SetCustom sets the payload of a custom step.
func (w *Wizard) SetCustom(v any) error {
	return w.edit(func(s *runtime.Selector) error { return s.SetCustom(v) })
}

func (w *Wizard) edit(fn func(*runtime.Selector) error) error {
	if w.Completed() {
		return domain.ErrFlowCompleted
	}
	if err := fn(w.sel); err != nil {
		return err
	}
	w.lastErr = nil
	return nil
}

// RequestAdvance commits the current candidate. On a ValidationError the
// state is unchanged and View() carries the message.
func (w *Wizard) RequestAdvance() (domain.Event, error) {
	if w.Completed() {
		return domain.Event{}, domain.ErrFlowCompleted
	}
	return w.Advance(w.sel.Candidate())
}

// Advance commits candidate directly, bypassing the input buffer.
func (w *Wizard) Advance(candidate domain.Answer) (domain.Event, error) {
	ev, err := w.ctrl.Advance(candidate)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		w.lastErr = verr
	}
	return ev, err
}

// RequestBack moves to the previous step, pre-populated with its stored answer.
func (w *Wizard) RequestBack() (domain.Event, error) {
	return w.ctrl.Back()
}

// Dispatch applies a wire input event. Buffer events return a zero Event.
func (w *Wizard) Dispatch(ev domain.InputEvent) (domain.Event, error) {
	switch ev.Type {
	case domain.InputSelect:
		v, err := optionValue(ev.Value)
		if err != nil {
			return domain.Event{}, err
		}
		return domain.Event{}, w.SelectOption(v)
	case domain.InputToggle:
		v, err := optionValue(ev.Value)
		if err != nil {
			return domain.Event{}, err
		}
		return domain.Event{}, w.ToggleOption(v)
	case domain.InputText:
		s, ok := ev.Value.(string)
		if !ok && ev.Value != nil {
			return domain.Event{}, fmt.Errorf("%w: text value must be a string, got %T", domain.ErrInvalidInput, ev.Value)
		}
		return domain.Event{}, w.SetText(s)
	case domain.InputNumber:
		return domain.Event{}, w.SetNumber(ev.Value)
	case domain.InputCustom:
		return domain.Event{}, w.SetCustom(ev.Value)
	case domain.InputAdvance:
		return w.RequestAdvance()
	case domain.InputBack:
		return w.RequestBack()
	}
	return domain.Event{}, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, ev.Type)
}

func optionValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(x), nil
	}
	return "", fmt.Errorf("%w: option value must be a string, got %T", domain.ErrInvalidInput, v)
}

// View describes the current position for renderers.
func (w *Wizard) View() domain.View {
	v := domain.View{
		Flow:      w.flow.Name,
		Title:     w.flow.Title,
		Index:     w.ctrl.Index(),
		Total:     w.ctrl.Len(),
		Progress:  w.ctrl.Progress(),
		Status:    w.ctrl.Status(),
		CanGoBack: w.CanGoBack(),
		Button:    w.flow.Theme.ButtonLabel(),
	}
	if w.flow.Theme != (domain.Theme{}) {
		theme := w.flow.Theme
		v.Theme = &theme
	}
	if w.Completed() {
		v.Answers = w.ctrl.Answers().Map()
		return v
	}
	if step, err := w.ctrl.Current(); err == nil {
		v.Step = &step
	}
	v.Candidate = w.sel.Candidate().Value()
	v.CanAdvance = w.sel.CanAdvance()
	if w.lastErr != nil {
		v.Error = w.lastErr.UserMessage()
	}
	return v
}

// Snapshot captures the position, the committed answers and the candidate.
func (w *Wizard) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Flow:      w.flow.Name,
		Index:     w.ctrl.Index(),
		Status:    w.ctrl.Status(),
		Answers:   w.ctrl.Answers(),
		Candidate: w.Candidate(),
		UpdatedAt: time.Now(),
	}
}
