package main

import (
	"fmt"

	"github.com/aretw0/onboard/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow-file | preset>",
	Short: "Check a flow definition for errors",
	Long:  `Parses a flow and reports duplicate step ids, unknown step types, duplicate option values and invalid validation rules.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		flow, err := cli.Validate(cmd.ErrOrStderr(), args[0], dir)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Flow %q is valid (%d steps) ✅\n", flow.Name, len(flow.Steps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
