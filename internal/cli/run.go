package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/onboard"
	"github.com/aretw0/onboard/internal/presentation/tui"
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/aretw0/onboard/pkg/observability"
	"github.com/aretw0/onboard/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Target is a flow file path, a preset name, or a flow name within Dir.
	Target string
	Dir    string
	Mode   Mode
	Debug  bool

	// PrintAnswers writes the answers as JSON to Out once the flow completes.
	PrintAnswers bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (o *RunOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// Execute runs a flow to completion in the terminal. Abandoning or
// interrupting the flow is not an error: the committed answers are returned
// and a notice is printed.
func Execute(ctx context.Context, opts RunOptions) (domain.Answers, error) {
	opts.defaults()
	logger := createLogger(opts.Debug)

	flow, err := LoadFlow(opts.Target, opts.Dir)
	if err != nil {
		return domain.Answers{}, err
	}

	wizardOpts := []onboard.Option{onboard.WithLogger(logger)}
	if opts.Debug {
		wizardOpts = append(wizardOpts, onboard.WithLifecycleHooks(observability.LoggingHooks(logger, flow.Name)))
	}
	w, err := onboard.NewFromFlow(flow, wizardOpts...)
	if err != nil {
		return domain.Answers{}, err
	}

	mode := resolveMode(opts.Mode, opts.In, opts.Out)
	if mode != ModeJSON {
		tui.PrintBanner(opts.Out, flow.Title)
	}
	logger.Debug("running flow", "flow", flow.Name, "mode", mode, "steps", len(flow.Steps))

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(newHandler(mode, opts.In, opts.Out)),
	)
	answers, runErr := r.Run(ctx, w)

	switch {
	case runErr == nil:
	case errors.Is(runErr, runner.ErrAbandoned):
		if mode != ModeJSON {
			fmt.Fprintf(opts.Err, ">>> Onboarding abandoned at step %d of %d.\n", w.Index()+1, w.Len())
		}
		return answers, nil
	case errors.Is(runErr, runner.ErrInterrupted):
		if mode != ModeJSON {
			fmt.Fprintf(opts.Err, "\n>>> Interrupted at step %d of %d.\n", w.Index()+1, w.Len())
		}
		return answers, nil
	default:
		return answers, runErr
	}

	if opts.PrintAnswers && mode != ModeJSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(answers); err != nil {
			return answers, fmt.Errorf("failed to write answers: %w", err)
		}
	}
	return answers, nil
}
