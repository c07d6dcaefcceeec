package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/onboard/internal/presentation/graph"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func sampleFlow() domain.Flow {
	return domain.Flow{
		Name:  "calorie-plan",
		Title: `The "plan"`,
		Steps: []domain.Step{
			{ID: "gender", Type: domain.StepSingleChoice, Title: "Choose your Gender", Options: []domain.Option{{Value: "m"}, {Value: "f"}}},
			{ID: "diet-type", Type: domain.StepMultiChoice},
			{ID: "body", Type: domain.StepCustom, Optional: true},
			{ID: "end", Type: domain.StepTextInput},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(sampleFlow(), nil, false)

	for _, want := range []string{
		"graph TD\n",
		`__start(("The 'plan'"))`,
		`gender{"Choose your Gender <br/> <i>single-choice</i> (2 options)"}`,
		`diet_type[["diet-type <br/> <i>multi-choice</i>"]]`,
		`body[("body <br/> <i>custom</i>")]`,
		`step_end[/"end <br/> <i>text-input</i>"/]`,
		"__start --> gender",
		"gender --> diet_type",
		"diet_type -- optional --> body",
		"step_end --> __done",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "back")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_BackEdges(t *testing.T) {
	out := graph.GenerateMermaid(sampleFlow(), nil, true)

	assert.Contains(t, out, "diet_type -. back .-> gender")
	assert.NotContains(t, out, "gender -. back .->")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	flow := sampleFlow()
	snap := domain.Snapshot{
		Index:   2,
		Status:  domain.StatusActive,
		Answers: domain.Answers{}.With("gender", domain.String("m")).With("diet-type", domain.List("x")).With("ghost", domain.String("?")),
	}

	out := graph.GenerateMermaid(flow, graph.OverlayFromSnapshot(flow, snap), false)

	assert.Contains(t, out, "class gender visited;")
	assert.Contains(t, out, "class diet_type visited;")
	assert.Contains(t, out, "class body current;")
	assert.NotContains(t, out, "ghost")
	assert.Equal(t, 1, strings.Count(out, "current;"))

	snap.Status = domain.StatusCompleted
	out = graph.GenerateMermaid(flow, graph.OverlayFromSnapshot(flow, snap), false)
	assert.Contains(t, out, "class __done current;")
}
