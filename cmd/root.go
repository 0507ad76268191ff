package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scriptorium",
	Short: "Transcript storage and full-text search",
	Long: `scriptorium stores show transcripts (seasons, episodes, speakers,
lines) in PostgreSQL and keeps a full-text search index over line content
in sync with every mutation.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
