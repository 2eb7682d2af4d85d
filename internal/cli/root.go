// Package cli provides the apicommit command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "apicommit",
		Short:         "Create verified commits through the GitHub API without a local clone",
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `Apicommit builds a commit on a GitHub repository through the Git Data API.

It resolves the parent state of the target branch, constructs a tree from
local file additions and deletions, creates the commit, and points the
branch at it, creating the branch if it does not exist. Commits made with
an app or bot token this way show up as verified.`,
	}

	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apicommit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
