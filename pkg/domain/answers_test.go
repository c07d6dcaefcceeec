package domain_test

import (
	"testing"

	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestAnswers_WithLeavesReceiverUntouched(t *testing.T) {
	var empty domain.Answers
	first := empty.With("gender", domain.String("male"))
	second := first.With("age", domain.Number(30))

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, first.Len())
	assert.False(t, first.Has("age"))
	assert.Equal(t, 2, second.Len())
	assert.Equal(t, []string{"age", "gender"}, second.IDs())
}

func TestAnswers_MapIsFresh(t *testing.T) {
	s := domain.NewAnswers(map[string]domain.Answer{"a": domain.String("x")})
	m := s.Map()
	m["a"] = "changed"
	m["b"] = "new"

	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "x", got.Value())
	assert.False(t, s.Has("b"))
}

func TestMergeHooks(t *testing.T) {
	var calls []string
	merged := domain.MergeHooks(
		domain.LifecycleHooks{OnCompleted: func(domain.Answers) { calls = append(calls, "first") }},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{
			OnCompleted:   func(domain.Answers) { calls = append(calls, "second") },
			OnStepChanged: func(domain.StepEvent) { calls = append(calls, "step") },
		},
	)

	merged.OnCompleted(domain.Answers{})
	merged.OnStepChanged(domain.StepEvent{})
	assert.Nil(t, merged.OnValidationFailed)
	assert.Equal(t, []string{"first", "second", "step"}, calls)
}

func TestStep_Defaults(t *testing.T) {
	assert.True(t, domain.Step{}.Required())
	assert.Equal(t, domain.DefaultTextPlaceholder, domain.Step{Type: domain.StepTextInput}.PlaceholderText())
	assert.Equal(t, domain.DefaultNumberPlaceholder, domain.Step{Type: domain.StepNumberInput}.PlaceholderText())
	assert.Equal(t, "Your age", domain.Step{Type: domain.StepNumberInput, Placeholder: "Your age"}.PlaceholderText())
	assert.Equal(t, "Continue", domain.Theme{}.ButtonLabel())
}

func TestOption_Glyph(t *testing.T) {
	assert.Equal(t, "👨", domain.Option{Icon: "👨"}.Glyph())
	assert.Equal(t, "⚖️", domain.Option{Icon: "⚖️"}.Glyph())
	assert.Equal(t, domain.DefaultGlyph, domain.Option{Icon: "user"}.Glyph())
	assert.Equal(t, domain.DefaultGlyph, domain.Option{}.Glyph())
}
