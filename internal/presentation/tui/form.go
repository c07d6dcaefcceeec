package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/runner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// backValue is the sentinel option value for the "Back" entry of choice steps.
const backValue = "\x00back"

// skipValue is the sentinel option value for the "Skip" entry of optional
// single-choice steps. It advances without selecting an option.
const skipValue = "\x00skip"

// backWord typed into a text field goes back instead of answering.
const backWord = "<"

const progressWidth = 24

// FormHandler implements runner.IOHandler with interactive huh forms.
type FormHandler struct {
	In  io.Reader
	Out io.Writer
}

// NewFormHandler creates a form handler over the given terminal streams.
func NewFormHandler(in io.Reader, out io.Writer) *FormHandler {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &FormHandler{In: in, Out: out}
}

// Render prints the progress header, the inline error, or the final summary.
func (h *FormHandler) Render(ctx context.Context, view domain.View) error {
	primary := ""
	if view.Theme != nil {
		primary = view.Theme.PrimaryColor
	}

	if view.Completed() {
		fmt.Fprintln(h.Out, readyStyle.Render(checkMark+" All set!"))
		fmt.Fprint(h.Out, Summary(view.Answers))
		return nil
	}

	header := fmt.Sprintf("%s  Step %d of %d", ProgressBar(view.Progress, progressWidth), view.Index+1, view.Total)
	fmt.Fprintln(h.Out, accent(primary).Render(header))
	if view.Error != "" {
		fmt.Fprintln(h.Out, failedStyle.Render(crossMark+" "+view.Error))
	}
	return nil
}

// Input runs one form for the current step. Aborting the form (Ctrl+C, Esc)
// abandons the flow.
func (h *FormHandler) Input(ctx context.Context, view domain.View) ([]domain.InputEvent, error) {
	if view.Step == nil {
		return nil, fmt.Errorf("%w: no active step", domain.ErrInvalidInput)
	}
	step := *view.Step
	advance := domain.InputEvent{Type: domain.InputAdvance}
	back := []domain.InputEvent{{Type: domain.InputBack}}

	var (
		field  huh.Field
		result func() []domain.InputEvent
	)

	switch step.Type {
	case domain.StepSingleChoice:
		value, _ := view.Candidate.(string)
		field = huh.NewSelect[string]().
			Title(title(step)).
			Description(step.Subtitle).
			Options(choiceOptions(step, step.Optional, view.CanGoBack)...).
			Value(&value)
		result = func() []domain.InputEvent {
			return singleChoiceEvents(value)
		}

	case domain.StepMultiChoice:
		current := candidateStrings(view.Candidate)
		values := append([]string(nil), current...)
		field = huh.NewMultiSelect[string]().
			Title(title(step)).
			Description(step.Subtitle).
			Options(choiceOptions(step, false, view.CanGoBack)...).
			Value(&values)
		result = func() []domain.InputEvent {
			for _, v := range values {
				if v == backValue {
					return back
				}
			}
			return append(runner.SelectionEvents(current, values), advance)
		}

	case domain.StepTextInput, domain.StepNumberInput:
		text := ""
		if view.Candidate != nil {
			text = domain.AnswerOf(view.Candidate).Display()
		}
		field = huh.NewInput().
			Title(title(step)).
			Description(describe(step.Subtitle, view.CanGoBack)).
			Placeholder(step.PlaceholderText()).
			Value(&text)
		kind := domain.InputText
		if step.Type == domain.StepNumberInput {
			kind = domain.InputNumber
		}
		result = func() []domain.InputEvent {
			if view.CanGoBack && strings.TrimSpace(text) == backWord {
				return back
			}
			clean, err := runner.SanitizeInput(strings.TrimSpace(text))
			if err != nil {
				clean = ""
			}
			return []domain.InputEvent{{Type: kind, Value: clean}, advance}
		}

	default:
		text := ""
		if view.Candidate != nil {
			if b, err := json.Marshal(view.Candidate); err == nil {
				text = string(b)
			}
		}
		field = huh.NewText().
			Title(title(step)).
			Description(describe(step.Subtitle+"\nEnter a JSON value.", view.CanGoBack)).
			Value(&text)
		result = func() []domain.InputEvent {
			text = strings.TrimSpace(text)
			if view.CanGoBack && text == backWord {
				return back
			}
			var payload any
			if err := json.Unmarshal([]byte(text), &payload); err != nil {
				payload = text
			}
			return []domain.InputEvent{{Type: domain.InputCustom, Value: payload}, advance}
		}
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithProgramOptions(tea.WithInput(h.In), tea.WithOutput(h.Out))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, runner.ErrAbandoned
		}
		return nil, err
	}
	return result(), nil
}

// SystemOutput prints a warning line.
func (h *FormHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Out, warningStyle.Render(warnMark+" "+msg))
	return err
}

// Summary renders the final answers, one per line, sorted by step id.
func Summary(answers map[string]any) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		value := domain.AnswerOf(answers[id]).Display()
		if value == "" {
			value = dimStyle.Render("(skipped)")
		}
		fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render(id+":"), value)
	}
	return b.String()
}

// singleChoiceEvents maps the value picked in a single-choice form to input
// events. Skip, or a form with nothing to pick, submits the step as it stands.
func singleChoiceEvents(value string) []domain.InputEvent {
	advance := domain.InputEvent{Type: domain.InputAdvance}
	switch value {
	case backValue:
		return []domain.InputEvent{{Type: domain.InputBack}}
	case skipValue, "":
		return []domain.InputEvent{advance}
	}
	return []domain.InputEvent{{Type: domain.InputSelect, Value: value}, advance}
}

func choiceOptions(step domain.Step, skippable, canGoBack bool) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(step.Options)+2)
	for _, o := range step.Options {
		label := o.Glyph() + " " + o.Label
		if o.Description != "" {
			label += subtitleStyle.Render("  " + o.Description)
		}
		opts = append(opts, huh.NewOption(label, o.Value))
	}
	if skippable {
		opts = append(opts, huh.NewOption(dimStyle.Render("→ Skip"), skipValue))
	}
	if canGoBack {
		opts = append(opts, huh.NewOption(dimStyle.Render("← Back"), backValue))
	}
	return opts
}

func describe(subtitle string, canGoBack bool) string {
	subtitle = strings.TrimSpace(subtitle)
	if !canGoBack {
		return subtitle
	}
	hint := fmt.Sprintf("Type %s to go back.", backWord)
	if subtitle == "" {
		return hint
	}
	return subtitle + "\n" + hint
}

func title(step domain.Step) string {
	if step.Title != "" {
		return step.Title
	}
	return step.ID
}

func candidateStrings(v any) []string {
	if list, ok := v.([]string); ok {
		return list
	}
	return nil
}
