package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/onboard/internal/presentation/tui"
	"github.com/aretw0/onboard/pkg/runner"
	"golang.org/x/term"
)

// Mode selects how a flow is presented.
type Mode string

const (
	// ModeAuto uses forms on an interactive terminal and plain text otherwise.
	ModeAuto Mode = "auto"
	ModeForm Mode = "form"
	ModeText Mode = "text"
	// ModeJSON exchanges NDJSON messages on stdin/stdout.
	ModeJSON Mode = "json"
)

// ParseMode validates a --mode flag value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeForm, ModeText, ModeJSON:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q: expected auto, form, text or json", s)
}

// resolveMode turns ModeAuto into a concrete mode.
func resolveMode(mode Mode, in io.Reader, out io.Writer) Mode {
	if mode != ModeAuto && mode != "" {
		return mode
	}
	if isTerminal(in) && isTerminal(out) {
		return ModeForm
	}
	return ModeText
}

func newHandler(mode Mode, in io.Reader, out io.Writer) runner.IOHandler {
	switch mode {
	case ModeJSON:
		return runner.NewJSONHandler(in, out)
	case ModeForm:
		return tui.NewFormHandler(in, out)
	}
	return runner.NewTextHandler(in, out,
		runner.WithTextHandlerRenderer(tui.NewRenderer(terminalWidth(out))),
	)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of out, or 0 when it is not a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
