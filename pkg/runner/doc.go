/*
Package runner implements the execution loop that drives a Wizard from a terminal
or a pipe.

It acts as the bridge between the wizard (which only understands input events)
and the outside world. The loop renders the current view, asks the handler for
the next batch of input events and dispatches them, until the flow completes or
the user abandons it.

# Key Components

  - Runner: The loop itself, with signal handling.
  - IOHandler: Decouples how views are shown and events are read.
  - TextHandler: Line prompts for CLI usage ("2", "push, email", "back", "exit").
  - JSONHandler: NDJSON views out, NDJSON input events in.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	answers, err := r.Run(ctx, wizard)
	if errors.Is(err, runner.ErrAbandoned) {
		return nil
	}
*/
package runner
