package runtime_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/onboard/internal/runtime"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colors = []domain.Option{
	{Value: "red", Label: "Red"},
	{Value: "green", Label: "Green"},
	{Value: "blue", Label: "Blue"},
}

func TestSelector_SingleChoiceIsExclusive(t *testing.T) {
	sel := runtime.NewSelector(domain.Step{ID: "c", Type: domain.StepSingleChoice, Options: colors}, domain.None())

	require.NoError(t, sel.Select("red"))
	require.NoError(t, sel.Select("blue"))
	assert.True(t, sel.Candidate().Equal(domain.String("blue")))
	assert.True(t, sel.Complete())
}

func TestSelector_ToggleIsItsOwnInverse(t *testing.T) {
	step := domain.Step{ID: "c", Type: domain.StepMultiChoice, Options: colors}
	sel := runtime.NewSelector(step, domain.List("red", "green", "blue"))

	require.NoError(t, sel.Toggle("green"))
	got, _ := sel.Candidate().AsList()
	assert.Equal(t, []string{"red", "blue"}, got)

	require.NoError(t, sel.Toggle("green"))
	got, _ = sel.Candidate().AsList()
	assert.Equal(t, []string{"red", "blue", "green"}, got)

	require.NoError(t, sel.Toggle("green"))
	got, _ = sel.Candidate().AsList()
	assert.Equal(t, []string{"red", "blue"}, got, "order of remaining elements is preserved")
}

func TestSelector_ToggleFromEmpty(t *testing.T) {
	sel := runtime.NewSelector(domain.Step{ID: "c", Type: domain.StepMultiChoice, Options: colors}, domain.None())
	assert.False(t, sel.Complete())

	require.NoError(t, sel.Toggle("blue"))
	require.NoError(t, sel.Toggle("red"))
	assert.True(t, sel.Candidate().Equal(domain.List("blue", "red")))

	require.NoError(t, sel.Toggle("blue"))
	require.NoError(t, sel.Toggle("red"))
	assert.True(t, sel.Candidate().IsEmpty())
	assert.False(t, sel.Complete())
}

func TestSelector_RejectsUnknownOptionsAndWrongTypes(t *testing.T) {
	single := runtime.NewSelector(domain.Step{ID: "c", Type: domain.StepSingleChoice, Options: colors}, domain.None())
	assert.ErrorIs(t, single.Select("purple"), domain.ErrUnknownOption)
	assert.ErrorIs(t, single.Toggle("red"), domain.ErrWrongStepType)
	assert.ErrorIs(t, single.SetText("red"), domain.ErrWrongStepType)
	assert.ErrorIs(t, single.SetNumber(1), domain.ErrWrongStepType)
	assert.ErrorIs(t, single.SetCustom(1), domain.ErrWrongStepType)
	assert.True(t, single.Candidate().IsEmpty())
}

func TestSelector_Prefill(t *testing.T) {
	sel := runtime.NewSelector(domain.Step{ID: "n", Type: domain.StepTextInput}, domain.String("Ada"))
	assert.True(t, sel.Candidate().Equal(domain.String("Ada")))
	sel.Reset()
	assert.True(t, sel.Candidate().IsEmpty())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want domain.Answer
	}{
		{"int", 30, domain.Number(30)},
		{"float", 1.5, domain.Number(1.5)},
		{"numeric text", " 42 ", domain.Number(42)},
		{"negative text", "-3.25", domain.Number(-3.25)},
		{"json number", json.Number("17"), domain.Number(17)},
		{"raw passthrough", "abc", domain.String("abc")},
		{"partially numeric stays raw", "12abc", domain.String("12abc")},
		{"nan stays raw", "NaN", domain.String("NaN")},
		{"empty clears", "  ", domain.None()},
		{"nil clears", nil, domain.None()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runtime.ParseNumber(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v (%s)", got.Value(), got.Kind())
		})
	}

	_, err := runtime.ParseNumber(true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSelector_NumberPassthroughReachesValidator(t *testing.T) {
	step := domain.Step{
		ID:   "age",
		Type: domain.StepNumberInput,
		Validate: func(a domain.Answer) error {
			if _, ok := a.AsNumber(); !ok {
				return errors.New("Please enter a valid age between 13 and 120")
			}
			return nil
		},
	}
	sel := runtime.NewSelector(step, domain.None())
	require.NoError(t, sel.SetNumber("twelve"))
	assert.True(t, sel.Candidate().Equal(domain.String("twelve")))

	verr := runtime.Check(step, sel.Candidate())
	require.NotNil(t, verr)
	assert.Equal(t, domain.ReasonInvalid, verr.Reason)
	assert.Equal(t, "Please enter a valid age between 13 and 120", verr.Message)
}

func TestSelector_CustomPayload(t *testing.T) {
	sel := runtime.NewSelector(domain.Step{ID: "hw", Type: domain.StepCustom}, domain.None())
	payload := map[string]any{"height": 180, "weight": 75, "unit": "metric"}
	require.NoError(t, sel.SetCustom(payload))
	assert.Equal(t, domain.KindOpaque, sel.Candidate().Kind())
	assert.True(t, sel.CanAdvance())
}
