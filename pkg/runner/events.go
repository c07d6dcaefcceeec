package runner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// SelectionEvents returns the toggle events that turn the current multi-choice
// selection into desired. Deselections come first, then additions in desired order.
func SelectionEvents(current, desired []string) []domain.InputEvent {
	want := make(map[string]bool, len(desired))
	for _, v := range desired {
		want[v] = true
	}
	have := make(map[string]bool, len(current))
	var events []domain.InputEvent
	for _, v := range current {
		have[v] = true
		if !want[v] {
			events = append(events, domain.InputEvent{Type: domain.InputToggle, Value: v})
		}
	}
	for _, v := range desired {
		if !have[v] {
			have[v] = true
			events = append(events, domain.InputEvent{Type: domain.InputToggle, Value: v})
		}
	}
	return events
}

// ParseLine converts one line typed at a prompt into input events for the view.
//
// "exit" and "quit" abandon the flow, "back" (or "<") goes back and an empty
// line submits the current candidate. Otherwise the line answers the step:
// choices by 1-based number, value or label (comma or space separated for
// multi-choice), free text, a number, or JSON for custom steps.
func ParseLine(view domain.View, line string) ([]domain.InputEvent, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "exit", "quit":
		return nil, ErrAbandoned
	case "back", "<":
		return []domain.InputEvent{{Type: domain.InputBack}}, nil
	case "":
		return []domain.InputEvent{{Type: domain.InputAdvance}}, nil
	}

	step := view.Step
	if step == nil {
		return nil, fmt.Errorf("%w: no active step", domain.ErrInvalidInput)
	}
	advance := domain.InputEvent{Type: domain.InputAdvance}

	switch step.Type {
	case domain.StepSingleChoice:
		return []domain.InputEvent{
			{Type: domain.InputSelect, Value: resolveOption(*step, line)},
			advance,
		}, nil

	case domain.StepMultiChoice:
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
		desired := make([]string, 0, len(fields))
		for _, f := range fields {
			desired = append(desired, resolveOption(*step, f))
		}
		return append(SelectionEvents(candidateList(view.Candidate), desired), advance), nil

	case domain.StepTextInput:
		return []domain.InputEvent{{Type: domain.InputText, Value: line}, advance}, nil

	case domain.StepNumberInput:
		return []domain.InputEvent{{Type: domain.InputNumber, Value: line}, advance}, nil

	case domain.StepCustom:
		var payload any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			payload = line
		}
		return []domain.InputEvent{{Type: domain.InputCustom, Value: payload}, advance}, nil
	}
	return nil, fmt.Errorf("%w: unsupported step type %q", domain.ErrInvalidInput, step.Type)
}

// resolveOption maps a token to an option value. Unknown tokens are returned
// unchanged so the wizard reports them.
func resolveOption(step domain.Step, token string) string {
	token = strings.TrimSpace(token)
	if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= len(step.Options) && !step.HasOption(token) {
		return step.Options[n-1].Value
	}
	if step.HasOption(token) {
		return token
	}
	for _, opt := range step.Options {
		if strings.EqualFold(opt.Label, token) || strings.EqualFold(opt.Value, token) {
			return opt.Value
		}
	}
	return token
}

func candidateList(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
