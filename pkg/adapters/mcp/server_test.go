package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/onboard/pkg/adapters/memory"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planFlow = `
name: plan
steps:
  - id: goal
    type: single-choice
    options:
      - { value: lose, label: Lose weight }
      - { value: gain, label: Gain muscle }
  - id: age
    type: number-input
    validation:
      min: 13
      max: 120
      message: Please enter a valid age
`

func newServer(t *testing.T) *Server {
	t.Helper()
	mgr := session.NewManager(
		memory.NewStore(),
		memory.NewLoader(map[string]string{"plan": planFlow}),
		session.WithIDGenerator(func() string { return "s-1" }),
	)
	return NewServer(mgr)
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_ListAndDescribe(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleListFlows(ctx, call(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["plan"]`, text(t, res))

	res, err = s.handleDescribeFlow(ctx, call(map[string]any{"flow": "plan"}))
	require.NoError(t, err)
	var flow domain.Flow
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &flow))
	assert.Len(t, flow.Steps, 2)

	res, err = s.handleDescribeFlow(ctx, call(map[string]any{"flow": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_SessionRoundTrip(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	started, err := s.handleStartSession(ctx, call(nil), StartArgs{Flow: "plan"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", started.SessionID)
	require.NotNil(t, started.View.Step)
	assert.Equal(t, "goal", started.View.Step.ID)

	res, err := s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "select", Value: "gain"})
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, "gain", res.View.Candidate)

	res, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "advance"})
	require.NoError(t, err)
	assert.Equal(t, "advanced", res.Event)

	// Out-of-range numbers are reported inline, not as tool failures.
	_, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "number", Value: "7"})
	require.NoError(t, err)
	res, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "advance"})
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid age", res.Error)
	assert.Equal(t, 1, res.View.Index)

	_, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "number", Value: "30"})
	require.NoError(t, err)
	res, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "advance"})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Event)
	assert.Equal(t, map[string]any{"goal": "gain", "age": float64(30)}, res.View.Answers)

	step, err := s.handleGetStep(ctx, call(nil), SessionArgs{SessionID: "s-1"})
	require.NoError(t, err)
	assert.True(t, step.View.Completed())

	graph, err := s.handleGetGraph(ctx, call(map[string]any{"session_id": "s-1"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, graph), "graph TD")

	abandoned, err := s.handleAbandon(ctx, call(map[string]any{"session_id": "s-1"}))
	require.NoError(t, err)
	assert.False(t, abandoned.IsError)

	_, err = s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "back"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_UnknownOptionIsInline(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, err := s.handleStartSession(ctx, call(nil), StartArgs{Flow: "plan"})
	require.NoError(t, err)

	res, err := s.handleSendEvent(ctx, call(nil), EventArgs{SessionID: "s-1", Type: "select", Value: "maintain"})
	require.NoError(t, err)
	assert.Contains(t, res.Error, "unknown option")
}

func TestToInputEvent_DecodesCustomPayload(t *testing.T) {
	ev, err := toInputEvent(EventArgs{Type: "custom", Value: `{"height":180}`})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"height": float64(180)}, ev.Value)

	ev, err = toInputEvent(EventArgs{Type: "custom", Value: "tall"})
	require.NoError(t, err)
	assert.Equal(t, "tall", ev.Value)
}

func TestServer_GraphRequiresTarget(t *testing.T) {
	s := newServer(t)
	res, err := s.handleGetGraph(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
