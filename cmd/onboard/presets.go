package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/onboard/internal/cli"
	"github.com/aretw0/onboard/internal/presets"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List the bundled flows, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			data, err := presets.NewLoader().GetFlow(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTEPS\tTITLE")
		for _, name := range presets.Names() {
			flow, err := cli.LoadFlow(name, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(flow.Steps), flow.Title)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
