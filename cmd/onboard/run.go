package main

import (
	"context"

	"github.com/aretw0/onboard/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <flow-file | preset>",
	Short: "Run an onboarding flow in the terminal",
	Long: `Runs a flow interactively. The argument is a path to a .yaml/.yml/.json flow,
a flow name when --dir is set, or one of the bundled presets (see 'onboard presets').

On an interactive terminal the flow is shown as forms; otherwise as plain text
prompts. --json switches to NDJSON on stdin/stdout for driving the flow from
another program.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		debug, _ := cmd.Flags().GetBool("debug")
		modeFlag, _ := cmd.Flags().GetString("mode")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		printAnswers, _ := cmd.Flags().GetBool("print-answers")

		mode, err := cli.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		switch {
		case jsonMode:
			mode = cli.ModeJSON
		case plain:
			mode = cli.ModeText
		}

		_, err = cli.Execute(context.Background(), cli.RunOptions{
			Target:       args[0],
			Dir:          dir,
			Mode:         mode,
			Debug:        debug,
			PrintAnswers: printAnswers,
			In:           cmd.InOrStdin(),
			Out:          cmd.OutOrStdout(),
			Err:          cmd.ErrOrStderr(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("mode", "auto", "Presentation: auto, form, text or json")
	runCmd.Flags().Bool("json", false, "Shortcut for --mode json (NDJSON input/output)")
	runCmd.Flags().Bool("plain", false, "Shortcut for --mode text")
	runCmd.Flags().Bool("print-answers", false, "Print the answers as JSON when the flow completes")
	runCmd.MarkFlagsMutuallyExclusive("json", "plain")
}
