package runner

import (
	"testing"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toggles(values ...string) []domain.InputEvent {
	out := make([]domain.InputEvent, 0, len(values))
	for _, v := range values {
		out = append(out, domain.InputEvent{Type: domain.InputToggle, Value: v})
	}
	return out
}

func TestSelectionEvents(t *testing.T) {
	assert.Empty(t, SelectionEvents([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, toggles("a", "c"), SelectionEvents([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, toggles("x"), SelectionEvents(nil, []string{"x", "x"}))
	assert.Equal(t, toggles("a"), SelectionEvents([]string{"a"}, nil))
}

func TestParseLine(t *testing.T) {
	single := domain.Step{
		ID:   "goal",
		Type: domain.StepSingleChoice,
		Options: []domain.Option{
			{Value: "lose", Label: "Lose weight"},
			{Value: "maintain", Label: "Maintain"},
		},
	}
	numeric := domain.Step{
		ID:   "workouts",
		Type: domain.StepSingleChoice,
		Options: []domain.Option{
			{Value: "6+", Label: "6+"},
			{Value: "1", Label: "One"},
		},
	}
	multi := domain.Step{
		ID:      "tags",
		Type:    domain.StepMultiChoice,
		Options: []domain.Option{{Value: "a"}, {Value: "b"}, {Value: "c"}},
	}
	custom := domain.Step{ID: "body", Type: domain.StepCustom}
	number := domain.Step{ID: "age", Type: domain.StepNumberInput}

	advance := domain.InputEvent{Type: domain.InputAdvance}

	tests := []struct {
		name string
		view domain.View
		line string
		want []domain.InputEvent
	}{
		{"empty submits", domain.View{Step: &single}, "  ", []domain.InputEvent{advance}},
		{"back", domain.View{Step: &single}, "BACK", []domain.InputEvent{{Type: domain.InputBack}}},
		{"index", domain.View{Step: &single}, "2", []domain.InputEvent{{Type: domain.InputSelect, Value: "maintain"}, advance}},
		{"label", domain.View{Step: &single}, "lose weight", []domain.InputEvent{{Type: domain.InputSelect, Value: "lose"}, advance}},
		{"unknown kept", domain.View{Step: &single}, "gain", []domain.InputEvent{{Type: domain.InputSelect, Value: "gain"}, advance}},
		{"value wins over index", domain.View{Step: &numeric}, "1", []domain.InputEvent{{Type: domain.InputSelect, Value: "1"}, advance}},
		{"multi diff", domain.View{Step: &multi, Candidate: []string{"a", "b"}}, "b,c", append(toggles("a", "c"), advance)},
		{"number", domain.View{Step: &number}, "30", []domain.InputEvent{{Type: domain.InputNumber, Value: "30"}, advance}},
		{"custom json", domain.View{Step: &custom}, `{"height_cm":180}`, []domain.InputEvent{{Type: domain.InputCustom, Value: map[string]any{"height_cm": float64(180)}}, advance}},
		{"custom raw", domain.View{Step: &custom}, "tall", []domain.InputEvent{{Type: domain.InputCustom, Value: "tall"}, advance}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.view, tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Exit(t *testing.T) {
	_, err := ParseLine(domain.View{}, "exit")
	assert.ErrorIs(t, err, ErrAbandoned)

	_, err = ParseLine(domain.View{}, "something")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
