// Package cmd implements the minicourse command line: the HTTP server,
// migrations and the one-shot ordering audit.
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd serves the API when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "minicourse",
	Short: "Authoring backend for short ordered courses",
	Long: `minicourse serves the course editor API. Courses hold modules, modules
hold lessons and lessons hold content blocks, each kept in a dense 1..N order.

Configuration is read from the environment and from a .env file if present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newAuditCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
