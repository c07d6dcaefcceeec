package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	readyStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	failedStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	progressBarFull  = lipgloss.NewStyle().Foreground(colorGreen)
	progressBarEmpty = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	checkMark = "✔"
	crossMark = "✘"
	warnMark  = "!"
)

// accent returns the section style tinted with the flow's primary colour, if any.
func accent(primary string) lipgloss.Style {
	if primary == "" {
		return sectionStyle
	}
	return sectionStyle.Foreground(lipgloss.Color(primary))
}

// ProgressBar renders progress (0..1) as a bar of the given width.
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	progress = min(max(progress, 0), 1)
	filled := int(progress*float64(width) + 0.5)
	return progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", width-filled))
}
