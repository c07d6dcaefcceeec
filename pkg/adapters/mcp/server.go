package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/internal/presentation/graph"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/runner"
	"github.com/aretw0/onboard/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const flowsURI = "onboard://flows"

// SessionResult aligns with the HTTP SessionResponse. Rejected events are
// reported in Error alongside the view rather than as tool failures, so the
// agent can read the inline message and retry.
type SessionResult struct {
	SessionID string      `json:"session_id" jsonschema_description:"The session identifier"`
	View      domain.View `json:"view" jsonschema_description:"What the user should see at the current step"`
	Event     string      `json:"event,omitempty" jsonschema_description:"advanced, back or completed when the position changed"`
	Error     string      `json:"error,omitempty" jsonschema_description:"Why the last event was rejected"`
}

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// StartArgs names the flow to start.
type StartArgs struct {
	Flow string `json:"flow"`
}

// EventArgs is one input event against a session.
type EventArgs struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Value     string `json:"value,omitempty"`
}

// Server exposes a session manager as an MCP server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("onboard-mcp", onboard.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_flows",
		mcp.WithDescription("List the onboarding flows that can be started."),
	), s.handleListFlows)

	s.mcpServer.AddTool(mcp.NewTool("describe_flow",
		mcp.WithDescription("Get the full definition of a flow: its steps, options and theme."),
		mcp.WithString("flow", mcp.Required(), mcp.Description("Flow name as returned by list_flows")),
	), s.handleDescribeFlow)

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a new onboarding session and return its first step."),
		mcp.WithString("flow", mcp.Required(), mcp.Description("Flow name as returned by list_flows")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("get_step",
		mcp.WithDescription("Get the current step of a session, including the pending selection."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleGetStep))

	s.mcpServer.AddTool(mcp.NewTool("send_event",
		mcp.WithDescription("Apply one input event. Selections only change the pending answer; use advance to commit it and move on."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithString("type", mcp.Required(),
			mcp.Description("Event type"),
			mcp.Enum("select", "toggle", "text", "number", "custom", "advance", "back"),
		),
		mcp.WithString("value", mcp.Description("Option value for select/toggle, the text or number, or a JSON payload for custom steps")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleSendEvent))

	s.mcpServer.AddTool(mcp.NewTool("abandon_session",
		mcp.WithDescription("Abandon a session and discard its answers."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
	), s.handleAbandon)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a flow, or a session's progress through it, as a Mermaid diagram."),
		mcp.WithString("flow", mcp.Description("Flow name")),
		mcp.WithString("session_id", mcp.Description("Session ID; takes precedence over flow")),
	), s.handleGetGraph)
}

func (s *Server) handleListFlows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flows, err := s.sessions.Flows()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	b, _ := json.Marshal(flows)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleDescribeFlow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("flow")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flow, err := s.sessions.Flow(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, _ := json.Marshal(flow)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (SessionResult, error) {
	id, view, err := s.sessions.Start(ctx, args.Flow)
	if err != nil {
		return SessionResult{}, fmt.Errorf("start failed: %w", err)
	}
	return SessionResult{SessionID: id, View: view}, nil
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResult, error) {
	view, err := s.sessions.View(ctx, args.SessionID)
	if err != nil {
		return SessionResult{}, err
	}
	return SessionResult{SessionID: args.SessionID, View: view}, nil
}

func (s *Server) handleSendEvent(ctx context.Context, request mcp.CallToolRequest, args EventArgs) (SessionResult, error) {
	ev, err := toInputEvent(args)
	if err != nil {
		return SessionResult{}, err
	}

	view, out, err := s.sessions.Dispatch(ctx, args.SessionID, ev)
	res := SessionResult{SessionID: args.SessionID, View: view, Event: string(out.Type)}
	if err == nil {
		return res, nil
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		return SessionResult{}, err
	}

	s.logger.Debug("MCP event rejected", "session_id", args.SessionID, "type", args.Type, "err", err)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		res.Error = verr.UserMessage()
	} else {
		res.Error = err.Error()
	}
	return res, nil
}

func (s *Server) handleAbandon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s abandoned", id)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := request.GetString("session_id", ""); id != "" {
		var out string
		err := s.sessions.WithSession(ctx, id, func(w *onboard.Wizard) error {
			out = graph.GenerateMermaid(w.Flow(), graph.OverlayFromSnapshot(w.Flow(), w.Snapshot()), true)
			return nil
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}

	name := request.GetString("flow", "")
	if name == "" {
		return mcp.NewToolResultError("either flow or session_id is required"), nil
	}
	flow, err := s.sessions.Flow(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(flow, nil, false)), nil
}

// toInputEvent converts tool arguments into a wire event. Custom payloads
// are decoded as JSON when possible.
func toInputEvent(args EventArgs) (domain.InputEvent, error) {
	ev := domain.InputEvent{Type: domain.InputType(args.Type)}
	if args.Value == "" {
		return ev, nil
	}
	clean, err := runner.SanitizeInput(args.Value)
	if err != nil {
		return ev, fmt.Errorf("input rejected: %w", err)
	}
	ev.Value = clean
	if ev.Type == domain.InputCustom {
		var payload any
		if json.Unmarshal([]byte(clean), &payload) == nil {
			ev.Value = payload
		}
	}
	return ev, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(flowsURI, "Available onboarding flows",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.sessions.Flows()
		if err != nil {
			return nil, fmt.Errorf("failed to list flows: %w", err)
		}
		flows := make([]domain.Flow, 0, len(names))
		for _, name := range names {
			flow, err := s.sessions.Flow(name)
			if err != nil {
				return nil, err
			}
			flows = append(flows, flow)
		}
		b, _ := json.Marshal(flows)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      flowsURI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	})
}
