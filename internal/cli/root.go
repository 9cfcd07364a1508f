// Package cli wires the classrank commands: the HTTP service plus a few
// offline tools for inspecting tier tables and reviewing questions.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the service.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "classrank",
		Short:         "Rank tiers and leaderboards for classroom progress",
		Long:          "classrank ingests quiz and duel events, keeps weekly and PvP standings, and resolves rank tiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, "")
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newTiersCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newReviewCmd())
	root.AddCommand(newLoadgenCmd())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
