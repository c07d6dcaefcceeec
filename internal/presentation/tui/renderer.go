package tui

import (
	"github.com/aretw0/onboard/pkg/runner"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a runner.ContentRenderer that renders markdown using glamour.
// A positive width enables word wrapping at that column.
func NewRenderer(width int) runner.ContentRenderer {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
