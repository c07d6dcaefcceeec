package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/internal/presentation/graph"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/observability"
	"github.com/aretw0/onboard/pkg/runner"
	"github.com/aretw0/onboard/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds request bodies; individual string values are further
// limited by runner.SanitizeInput.
const maxBodySize = 64 << 10

// SessionResponse is returned by the session endpoints.
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	View      domain.View `json:"view"`
	Event     string      `json:"event,omitempty"`
}

// Server exposes a session manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Metrics  *observability.Metrics

	gatherer         prometheus.Gatherer
	validateRequests bool
	logger           *slog.Logger
	spec             *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks are attached to the session manager.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.Streams = streams
	}
}

// WithMetrics records session metrics and serves gatherer at /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = m
		s.gatherer = gatherer
	}
}

// WithRequestValidation checks every request against the OpenAPI document.
func WithRequestValidation(enabled bool) Option {
	return func(s *Server) {
		s.validateRequests = enabled
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over the session manager.
func NewServer(sessions *session.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.spec = spec
	return s, nil
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s, err := NewServer(sessions, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler()
}

// Handler builds the chi router.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	if s.validateRequests {
		router, err := newSpecRouter(s.spec)
		if err != nil {
			return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
		}
		r.Use(requestValidator(router, func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.Warn("request rejected by OpenAPI validation", "path", r.URL.Path, "err", err)
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		}))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/flows", s.ListFlows)
	r.Get("/flows/{name}", s.GetFlow)
	r.Get("/flows/{name}/graph", s.GetFlowGraph)
	r.Post("/flows/{name}/sessions", s.StartSession)
	r.Get("/sessions", s.ListSessions)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.DeleteSession)
	r.Post("/sessions/{id}/events", s.SendEvents)
	r.Get("/sessions/{id}/graph", s.GetSessionGraph)
	r.Get("/sessions/{id}/stream", s.StreamSession)

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "onboard-http",
		"version":     onboard.Version,
		"api_version": s.spec.Info.Version,
	})
}

// ListFlows handles the GET /flows request.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := s.Sessions.Flows()
	if err != nil {
		s.writeError(w, err, "", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"flows": flows})
}

// GetFlow handles the GET /flows/{name} request.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.Sessions.Flow(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err, "", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, flow)
}

// GetFlowGraph handles the GET /flows/{name}/graph request.
func (s *Server) GetFlowGraph(w http.ResponseWriter, r *http.Request) {
	flow, err := s.Sessions.Flow(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err, "", nil)
		return
	}
	writeText(w, graph.GenerateMermaid(flow, nil, r.URL.Query().Get("back") == "true"))
}

// StartSession handles the POST /flows/{name}/sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id, view, err := s.Sessions.Start(r.Context(), name)
	if err != nil {
		s.writeError(w, err, "", nil)
		return
	}
	if s.Metrics != nil && view.Step != nil {
		s.Metrics.SessionStarted(view.Flow, *view.Step)
	}
	s.writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id, View: view})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err, "", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Sessions.View(r.Context(), id)
	if err != nil {
		s.writeError(w, err, id, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, View: view})
}

// DeleteSession handles the DELETE /sessions/{id} request (abandonment).
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Remove(r.Context(), id)
	if err != nil {
		s.writeError(w, err, id, nil)
		return
	}
	if s.Metrics != nil && snap.Status != domain.StatusCompleted {
		s.Metrics.SessionAbandoned()
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// SendEvents handles the POST /sessions/{id}/events request. The body is one
// input event or an array applied in order; the first rejected event stops the batch.
func (s *Server) SendEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err), id, nil)
		return
	}
	events, err := runner.DecodeEvents(body)
	if err != nil {
		s.writeError(w, err, id, nil)
		return
	}
	if err := sanitizeEvents(events); err != nil {
		s.writeError(w, err, id, nil)
		return
	}

	var (
		view domain.View
		last domain.Event
	)
	err = s.Sessions.WithSession(r.Context(), id, func(wz *onboard.Wizard) error {
		defer func() { view = wz.View() }()
		for _, ev := range events {
			out, err := wz.Dispatch(ev)
			if err != nil {
				return err
			}
			if out.Type != "" {
				last = out
			}
		}
		return nil
	})
	if err != nil {
		var v *domain.View
		if view.Flow != "" || view.Total > 0 {
			v = &view
			s.Streams.Send(id, StreamMessage{Type: StreamView, View: v})
		}
		s.writeError(w, err, id, v)
		return
	}

	s.Streams.Send(id, StreamMessage{Type: StreamView, View: &view})
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: id, View: view, Event: string(last.Type)})
}

// GetSessionGraph handles the GET /sessions/{id}/graph request.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var out string
	err := s.Sessions.WithSession(r.Context(), id, func(wz *onboard.Wizard) error {
		out = graph.GenerateMermaid(wz.Flow(), graph.OverlayFromSnapshot(wz.Flow(), wz.Snapshot()), true)
		return nil
	})
	if err != nil {
		s.writeError(w, err, id, nil)
		return
	}
	writeText(w, out)
}

// StreamSession handles the GET /sessions/{id}/stream request (SSE).
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Sessions.View(r.Context(), id)
	if err != nil {
		s.writeError(w, err, id, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if initial, err := json.Marshal(StreamMessage{Type: StreamView, View: &view}); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", initial)
	}
	flusher.Flush()
	s.logger.Debug("SSE: client subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// sanitizeEvents applies the input policy to string values.
func sanitizeEvents(events []domain.InputEvent) error {
	for i, ev := range events {
		if s, ok := ev.Value.(string); ok {
			clean, err := runner.SanitizeInput(s)
			if err != nil {
				return err
			}
			events[i].Value = clean
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error, sessionID string, view *domain.View) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "session_id", sessionID, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{
		Error:     userMessage(err),
		Code:      code,
		SessionID: sessionID,
		View:      view,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}
