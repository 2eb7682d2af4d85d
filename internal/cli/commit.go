package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"apicommit.dev/apicommit/internal/commit"
	"apicommit.dev/apicommit/internal/github"
	"apicommit.dev/apicommit/internal/gitutil"
	"apicommit.dev/apicommit/internal/output"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		repository     string
		branch         string
		message        string
		directory      string
		additions      []string
		deletions      []string
		allowEmpty     bool
		baseSHA        string
		baseBranch     string
		noParent       bool
		missingDeletes bool
		force          bool
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Build a commit on a branch through the API",
		Long: `Build a commit on a branch through the API.

The repository is taken from --repository, the GITHUB_REPOSITORY
environment variable, or the origin remote of the current directory, in
that order. The token comes from GITHUB_TOKEN and GITHUB_API_URL selects
a GitHub Enterprise endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			splog := output.NewSplog()
			splog.SetVerbose(verbose)

			owner, repo, err := resolveRepository(repository, directory)
			if err != nil {
				return err
			}

			token := os.Getenv("GITHUB_TOKEN")
			if token == "" {
				return fmt.Errorf("GITHUB_TOKEN is not set")
			}

			ctx := cmd.Context()
			client, err := github.NewRealClient(ctx, token, os.Getenv("GITHUB_API_URL"))
			if err != nil {
				return err
			}

			req := commit.Request{
				Owner:                   owner,
				Repo:                    repo,
				Branch:                  branch,
				Message:                 message,
				Directory:               directory,
				Additions:               additions,
				Deletions:               deletions,
				AllowEmpty:              allowEmpty,
				BaseSHA:                 baseSHA,
				BaseBranch:              baseBranch,
				NoParent:                noParent,
				TreatMissingAsDeletions: missingDeletes,
				Force:                   force,
			}

			result, err := commit.Perform(ctx, client, splog, req)
			if err != nil {
				return err
			}
			if result == nil {
				splog.Warn("nothing to commit")
				return nil
			}

			splog.Info("%s", result.CommitSHA)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repository, "repository", "R", "", "Target repository as owner/repo (defaults to $GITHUB_REPOSITORY, then the origin remote)")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to commit to, created if absent")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().StringVarP(&directory, "directory", "C", "", "Local directory addition and deletion paths are resolved against")
	cmd.Flags().StringArrayVar(&additions, "add", nil, "Path to add or update, repeatable")
	cmd.Flags().StringArrayVar(&deletions, "delete", nil, "Path to delete, repeatable")
	cmd.Flags().BoolVar(&allowEmpty, "empty", false, "Allow a commit with no file changes")
	cmd.Flags().StringVar(&baseSHA, "base-sha", "", "Commit SHA to use as parent instead of the branch tip")
	cmd.Flags().StringVar(&baseBranch, "base-branch", "", "Branch whose tip to use as parent")
	cmd.Flags().BoolVar(&noParent, "no-parent", false, "Create a root commit with no parents")
	cmd.Flags().BoolVar(&missingDeletes, "missing-as-delete", false, "Treat paths missing on disk as deletions instead of failing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Move the branch even if the commit is not a fast-forward")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	_ = cmd.MarkFlagRequired("branch")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

// resolveRepository determines owner and repo from the flag, the CI
// environment, or the local git remote, in that order
func resolveRepository(flag, directory string) (string, string, error) {
	coords := flag
	if coords == "" {
		coords = os.Getenv("GITHUB_REPOSITORY")
	}
	if coords != "" {
		owner, repo, found := strings.Cut(coords, "/")
		if !found || owner == "" || repo == "" {
			return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", coords)
		}
		return owner, repo, nil
	}

	dir := directory
	if dir == "" {
		dir = "."
	}
	owner, repo, err := gitutil.InferOwnerRepo(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to determine repository, pass --repository: %w", err)
	}
	return owner, repo, nil
}
