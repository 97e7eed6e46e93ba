package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "partnership-intake",
	Short:         "Partnership request intake service",
	Long:          `Partnership request intake: the public submission API, the staff dashboard API, and their maintenance commands.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
