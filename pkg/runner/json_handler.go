package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// Message types written by JSONHandler, one JSON object per line.
const (
	MessageStep      = "step"
	MessageCompleted = "completed"
	MessageError     = "error"
)

// Message is the envelope of every line written by JSONHandler.
type Message struct {
	Type  string       `json:"type"`
	View  *domain.View `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each input line is an event object ({"type":"select","value":"male"}), an
// array of events, or the string "exit".
type JSONHandler struct {
	Writer  io.Writer
	Encoder *json.Encoder

	pump *linePump
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Writer:  w,
		Encoder: json.NewEncoder(w),
		pump:    newLinePump(r),
	}
}

// Render emits the view as a single JSON line.
func (h *JSONHandler) Render(ctx context.Context, view domain.View) error {
	msg := Message{Type: MessageStep, View: &view}
	if view.Completed() {
		msg.Type = MessageCompleted
	}
	return h.Encoder.Encode(msg)
}

// Input reads one line of events. Blank lines are skipped.
func (h *JSONHandler) Input(ctx context.Context, view domain.View) ([]domain.InputEvent, error) {
	for {
		text, err := h.pump.next(ctx)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		clean, err := SanitizeInput(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return DecodeEvents([]byte(clean))
	}
}

// SystemOutput emits an error line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageError, Error: msg})
}

// DecodeEvents parses an event object, an array of events, or a quit command.
func DecodeEvents(data []byte) ([]domain.InputEvent, error) {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "["):
		var events []domain.InputEvent
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return events, nil
	case strings.HasPrefix(trimmed, "{"):
		var ev domain.InputEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return []domain.InputEvent{ev}, nil
	}

	// Try to unquote if it's a JSON string, otherwise take the raw word.
	word := trimmed
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		word = s
	}
	switch strings.ToLower(word) {
	case "exit", "quit":
		return nil, ErrAbandoned
	}
	return nil, fmt.Errorf("%w: expected an event object, got %q", domain.ErrInvalidInput, word)
}
