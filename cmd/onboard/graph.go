package main

import (
	"fmt"

	"github.com/aretw0/onboard/internal/cli"
	"github.com/aretw0/onboard/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <flow-file | preset>",
	Short: "Export the flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the step sequence, marking optional steps.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		showBack, _ := cmd.Flags().GetBool("back")

		flow, err := cli.LoadFlow(args[0], dir)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(flow, nil, showBack))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("back", false, "Draw back edges between steps")
}
