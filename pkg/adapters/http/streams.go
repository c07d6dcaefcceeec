package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/onboard/internal/logging"
	"github.com/aretw0/onboard/pkg/domain"
)

// Stream message types.
const (
	StreamView             = "view"
	StreamStepChanged      = "step_changed"
	StreamValidationFailed = "validation_failed"
	StreamCompleted        = "completed"
)

// StreamMessage is one server-sent event payload.
type StreamMessage struct {
	Type    string         `json:"type"`
	Index   *int           `json:"index,omitempty"`
	StepID  string         `json:"step_id,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
	Answers map[string]any `json:"answers,omitempty"`
	View    *domain.View   `json:"view,omitempty"`
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for a session. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session without blocking.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[sessionID]
	if !ok {
		return
	}
	sm.logger.Debug("broadcasting", "session_id", sessionID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Send encodes and broadcasts a message.
func (sm *StreamManager) Send(sessionID string, msg StreamMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		sm.logger.Error("SSE: failed to encode message", "session_id", sessionID, "err", err)
		return
	}
	sm.Broadcast(sessionID, string(b))
}

// Close disconnects every subscriber of a session.
func (sm *StreamManager) Close(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers[sessionID] {
		close(ch)
	}
	delete(sm.subscribers, sessionID)
}

// Hooks forwards a session's output events to its subscribers.
// Its signature matches session.HookFactory.
func (sm *StreamManager) Hooks(sessionID string, _ domain.Flow) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepChanged: func(e domain.StepEvent) {
			idx := e.Index
			sm.Send(sessionID, StreamMessage{Type: StreamStepChanged, Index: &idx, StepID: e.Step.ID})
		},
		OnValidationFailed: func(err *domain.ValidationError) {
			sm.Send(sessionID, StreamMessage{
				Type:    StreamValidationFailed,
				StepID:  err.StepID,
				Reason:  string(err.Reason),
				Message: err.UserMessage(),
			})
		},
		OnCompleted: func(a domain.Answers) {
			sm.Send(sessionID, StreamMessage{Type: StreamCompleted, Answers: a.Map()})
		},
	}
}
