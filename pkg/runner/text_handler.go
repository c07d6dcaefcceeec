package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

// TextHandler implements the line-based prompt interface.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer

	pump *linePump
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer used for subtitles.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
		pump:   newLinePump(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render prints the step header, its options and any inline error.
func (h *TextHandler) Render(ctx context.Context, view domain.View) error {
	if view.Completed() {
		fmt.Fprintf(h.Writer, "\n✔ %s completed (%d/%d)\n", flowTitle(view), view.Total, view.Total)
		return nil
	}
	step := view.Step
	if step == nil {
		return nil
	}

	fmt.Fprintf(h.Writer, "\n[%d/%d] %s\n", view.Index+1, view.Total, stepTitle(*step))
	if step.Subtitle != "" {
		fmt.Fprintln(h.Writer, h.render(step.Subtitle))
	}

	selected := make(map[string]bool)
	for _, v := range candidateList(view.Candidate) {
		selected[v] = true
	}
	if s, ok := view.Candidate.(string); ok {
		selected[s] = true
	}

	for i, opt := range step.Options {
		mark := " "
		if selected[opt.Value] {
			mark = "*"
		}
		line := fmt.Sprintf(" %s %d) %s %s", mark, i+1, opt.Glyph(), opt.Label)
		if opt.Description != "" {
			line += " - " + opt.Description
		}
		fmt.Fprintln(h.Writer, line)
	}

	fmt.Fprintln(h.Writer, hint(view))
	if view.Error != "" {
		fmt.Fprintf(h.Writer, "! %s\n", view.Error)
	}
	return nil
}

// Input reads one line and converts it into events. Oversized or malformed
// lines are reported and read again.
func (h *TextHandler) Input(ctx context.Context, view domain.View) ([]domain.InputEvent, error) {
	for {
		// Only show prompt if context is not yet done
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fmt.Fprint(h.Writer, "> ")

		text, err := h.pump.next(ctx)
		if err != nil {
			return nil, err
		}

		clean, err := SanitizeInput(strings.TrimSpace(text))
		if err != nil {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
			continue
		}

		events, err := ParseLine(view, clean)
		if err != nil && !errors.Is(err, ErrAbandoned) {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
			continue
		}
		return events, err
	}
}

// SystemOutput prints a meta-message with a "[System]" prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}

func (h *TextHandler) render(md string) string {
	if h.Renderer == nil {
		return md
	}
	out, err := h.Renderer(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func hint(view domain.View) string {
	var parts []string
	switch view.Step.Type {
	case domain.StepSingleChoice:
		parts = append(parts, "choose a number")
	case domain.StepMultiChoice:
		parts = append(parts, "choose numbers separated by commas")
	case domain.StepCustom:
		parts = append(parts, "enter JSON")
	default:
		parts = append(parts, strings.TrimSuffix(view.Step.PlaceholderText(), "..."))
	}
	parts = append(parts, "empty line to "+strings.ToLower(view.Button))
	if view.CanGoBack {
		parts = append(parts, "'back'")
	}
	parts = append(parts, "'exit'")
	return "(" + strings.Join(parts, ", ") + ")"
}

func stepTitle(step domain.Step) string {
	if step.Title != "" {
		return step.Title
	}
	return step.ID
}

func flowTitle(view domain.View) string {
	if view.Title != "" {
		return view.Title
	}
	if view.Flow != "" {
		return view.Flow
	}
	return "Onboarding"
}
