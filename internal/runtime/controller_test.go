package runtime_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/onboard/internal/runtime"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genderAgeSteps() []domain.Step {
	return []domain.Step{
		{
			ID:   "gender",
			Type: domain.StepSingleChoice,
			Options: []domain.Option{
				{Value: "male", Label: "Male"},
				{Value: "female", Label: "Female"},
				{Value: "other", Label: "Other"},
			},
		},
		{
			ID:   "age",
			Type: domain.StepNumberInput,
			Validate: func(a domain.Answer) error {
				if n, ok := a.AsNumber(); ok && n >= 13 && n <= 120 {
					return nil
				}
				return errors.New("invalid")
			},
		},
	}
}

func TestController_GenderAgeScenario(t *testing.T) {
	var completed []domain.Answers
	c, err := runtime.NewController(genderAgeSteps(), runtime.WithOnComplete(func(a domain.Answers) {
		completed = append(completed, a)
	}))
	require.NoError(t, err)

	_, err = c.Advance(domain.None())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ReasonIncomplete, verr.Reason)
	assert.Equal(t, 0, c.Index())

	sel := runtime.NewSelector(mustCurrent(t, c), domain.None())
	require.NoError(t, sel.Select("male"))
	ev, err := c.Advance(sel.Candidate())
	require.NoError(t, err)
	assert.Equal(t, domain.Event{Type: domain.EventAdvanced, Index: 1}, ev)
	assert.Equal(t, map[string]any{"gender": "male"}, c.Answers().Map())

	sel = runtime.NewSelector(mustCurrent(t, c), domain.None())
	require.NoError(t, sel.SetNumber(10))
	_, err = c.Advance(sel.Candidate())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ReasonInvalid, verr.Reason)
	assert.Equal(t, "invalid", verr.Message)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 1, c.Answers().Len())

	require.NoError(t, sel.SetNumber(30))
	ev, err = c.Advance(sel.Candidate())
	require.NoError(t, err)
	assert.Equal(t, domain.EventCompleted, ev.Type)
	assert.Equal(t, map[string]any{"gender": "male", "age": 30.0}, ev.Answers.Map())
	assert.Equal(t, domain.StatusCompleted, c.Status())
	require.Len(t, completed, 1)
	assert.Equal(t, ev.Answers.Map(), completed[0].Map())
}

func TestController_ExactlyNAdvancesComplete(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			steps := make([]domain.Step, n)
			for i := range steps {
				steps[i] = domain.Step{ID: fmt.Sprintf("q%d", i), Type: domain.StepTextInput}
			}
			calls := 0
			c, err := runtime.NewController(steps, runtime.WithHooks(domain.LifecycleHooks{
				OnCompleted: func(domain.Answers) { calls++ },
			}))
			require.NoError(t, err)

			for i := 0; i < n; i++ {
				assert.Equal(t, domain.StatusActive, c.Status())
				_, err := c.Advance(domain.String("answer"))
				require.NoError(t, err)
			}
			assert.Equal(t, domain.StatusCompleted, c.Status())
			assert.Equal(t, 1, calls)
			assert.Equal(t, n, c.Answers().Len())
		})
	}
}

func TestController_TerminalRejectsEverything(t *testing.T) {
	c, err := runtime.NewController([]domain.Step{{ID: "only", Type: domain.StepCustom}})
	require.NoError(t, err)
	_, err = c.Advance(domain.Opaque(map[string]any{"height": 180}))
	require.NoError(t, err)

	_, err = c.Current()
	assert.ErrorIs(t, err, domain.ErrFlowCompleted)
	_, err = c.Advance(domain.None())
	assert.ErrorIs(t, err, domain.ErrFlowCompleted)
	_, err = c.Back()
	assert.ErrorIs(t, err, domain.ErrFlowCompleted)
	assert.Equal(t, 1.0, c.Progress())
}

func TestController_BackAtFirstStepIsNoOp(t *testing.T) {
	stepChanges := 0
	c, err := runtime.NewController(genderAgeSteps(), runtime.WithHooks(domain.LifecycleHooks{
		OnStepChanged: func(domain.StepEvent) { stepChanges++ },
	}))
	require.NoError(t, err)

	before := c.Answers()
	_, err = c.Back()
	assert.ErrorIs(t, err, domain.ErrNoOp)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, before.Len(), c.Answers().Len())
	assert.Zero(t, stepChanges)
}

func TestController_BackKeepsAnswers(t *testing.T) {
	c, err := runtime.NewController(genderAgeSteps())
	require.NoError(t, err)
	_, err = c.Advance(domain.String("female"))
	require.NoError(t, err)

	ev, err := c.Back()
	require.NoError(t, err)
	assert.Equal(t, domain.Event{Type: domain.EventBack, Index: 0}, ev)

	prior, ok := c.Answers().Get("gender")
	require.True(t, ok)
	assert.Equal(t, "female", prior.Value())

	// Re-advancing overwrites the stored answer.
	_, err = c.Advance(domain.String("other"))
	require.NoError(t, err)
	got, _ := c.Answers().Get("gender")
	assert.Equal(t, "other", got.Value())
}

func TestController_SnapshotsAreImmutable(t *testing.T) {
	c, err := runtime.NewController(genderAgeSteps())
	require.NoError(t, err)

	empty := c.Answers()
	_, err = c.Advance(domain.String("male"))
	require.NoError(t, err)
	afterFirst := c.Answers()
	_, err = c.Back()
	require.NoError(t, err)
	_, err = c.Advance(domain.String("other"))
	require.NoError(t, err)

	assert.Equal(t, 0, empty.Len())
	got, _ := afterFirst.Get("gender")
	assert.Equal(t, "male", got.Value())
}

func TestController_DefinitionsAreCopied(t *testing.T) {
	steps := genderAgeSteps()
	c, err := runtime.NewController(steps)
	require.NoError(t, err)

	steps[0].Options[0].Value = "changed"
	steps[0].Options = append(steps[0].Options[:0], domain.Option{Value: "x"})

	got := c.Steps()
	require.Len(t, got[0].Options, 3)
	assert.Equal(t, "male", got[0].Options[0].Value)

	got[0].Options[1].Value = "mutated"
	assert.Equal(t, "female", c.Steps()[0].Options[1].Value)

	_, err = c.Advance(domain.String("male"))
	require.NoError(t, err)
}

func TestController_InvalidAdvanceLeavesStateUntouched(t *testing.T) {
	var failures []*domain.ValidationError
	c, err := runtime.NewController(genderAgeSteps(), runtime.WithHooks(domain.LifecycleHooks{
		OnValidationFailed: func(e *domain.ValidationError) { failures = append(failures, e) },
	}))
	require.NoError(t, err)

	candidates := []domain.Answer{
		domain.None(),
		domain.String("alien"),
		domain.String(""),
		domain.Number(3),
		domain.List("male"),
	}
	for _, cand := range candidates {
		_, err := c.Advance(cand)
		assert.Error(t, err)
		assert.Equal(t, 0, c.Index())
		assert.Equal(t, 0, c.Answers().Len())
	}
	require.Len(t, failures, len(candidates))
	assert.Equal(t, domain.ReasonMismatch, failures[3].Reason)
}

func TestController_Progress(t *testing.T) {
	steps := make([]domain.Step, 4)
	for i := range steps {
		steps[i] = domain.Step{ID: fmt.Sprint(i), Type: domain.StepCustom}
	}
	c, err := runtime.NewController(steps)
	require.NoError(t, err)

	want := []float64{0.25, 0.5, 0.75, 1}
	for i, w := range want {
		assert.InDelta(t, w, c.Progress(), 1e-9, "index %d", i)
		_, err := c.Advance(domain.None())
		require.NoError(t, err)
	}
}

func TestController_StepChangedHook(t *testing.T) {
	var seen []string
	c, err := runtime.NewController(genderAgeSteps(), runtime.WithHooks(domain.LifecycleHooks{
		OnStepChanged: func(e domain.StepEvent) { seen = append(seen, fmt.Sprintf("%d:%s", e.Index, e.Step.ID)) },
	}))
	require.NoError(t, err)

	_, err = c.Advance(domain.String("male"))
	require.NoError(t, err)
	_, err = c.Back()
	require.NoError(t, err)
	assert.Equal(t, []string{"1:age", "0:gender"}, seen)
}

func TestController_OnCompleteObservesCompletedState(t *testing.T) {
	var c *runtime.Controller
	var statusInCallback domain.Status
	var err error
	c, err = runtime.NewController([]domain.Step{{ID: "a", Type: domain.StepCustom}},
		runtime.WithOnComplete(func(domain.Answers) { statusInCallback = c.Status() }))
	require.NoError(t, err)

	_, err = c.Advance(domain.None())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, statusInCallback)
}

func TestController_EmptyFlow(t *testing.T) {
	_, err := runtime.NewController(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFlow)
}

func TestController_Snapshot(t *testing.T) {
	answers := domain.Answers{}.With("gender", domain.String("male"))
	c, err := runtime.NewController(genderAgeSteps(), runtime.WithSnapshot(domain.Snapshot{
		Index:   1,
		Status:  domain.StatusActive,
		Answers: answers,
	}))
	require.NoError(t, err)

	step, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, "age", step.ID)
	assert.Equal(t, 1, c.Answers().Len())

	_, err = runtime.NewController(genderAgeSteps(), runtime.WithSnapshot(domain.Snapshot{Index: 7}))
	var oor *domain.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 7, oor.Index)
}

func mustCurrent(t *testing.T, c *runtime.Controller) domain.Step {
	t.Helper()
	step, err := c.Current()
	require.NoError(t, err)
	return step
}
