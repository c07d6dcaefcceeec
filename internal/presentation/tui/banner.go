package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`             _                         _ `, "#22c55e"},
	{`  ___  _ __ | |__   ___   __ _ _ __ __| |`, "#10b981"},
	{` / _ \| '_ \| '_ \ / _ \ / _' | '__/ _' |`, "#14b8a6"},
	{`| (_) | | | | |_) | (_) | (_| | | | (_| |`, "#06b6d4"},
	{` \___/|_| |_|_.__/ \___/ \__,_|_|  \__,_|`, "#3b82f6"},
}

// PrintBanner writes the ASCII banner followed by the flow title, if any.
func PrintBanner(w io.Writer, title string) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if title != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, termenv.String("  "+title).Bold())
	}
	fmt.Fprintln(w)
}
