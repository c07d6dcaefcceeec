package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Onboard runs multi-step onboarding wizards",
	Long: `Onboard drives onboarding flows defined in YAML or JSON: one question per step,
with validation before every advance. Flows run in the terminal, over HTTP or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory of flow files; flows are then referenced by name")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}
