package commit

import (
	"context"

	apierrors "apicommit.dev/apicommit/internal/errors"
	"apicommit.dev/apicommit/internal/github"
)

// resolveBase determines the commit/tree pair the new commit builds on.
//
// Priority, first match wins: an explicit base SHA, an explicit base
// branch (absence is an error), the target branch itself when it exists,
// and finally the repository's default branch.
func resolveBase(ctx context.Context, client github.Client, req *Request) (RefState, error) {
	if req.BaseSHA != "" {
		treeSHA, err := client.LookupCommitTree(ctx, req.Owner, req.Repo, req.BaseSHA)
		if err != nil {
			return RefState{}, err
		}
		return RefState{CommitSHA: req.BaseSHA, TreeSHA: treeSHA}, nil
	}

	if req.BaseBranch != "" {
		info, err := client.LookupRef(ctx, req.Owner, req.Repo, req.BaseBranch)
		if err != nil {
			return RefState{}, err
		}
		if info == nil {
			return RefState{}, apierrors.NewRefNotFoundError(req.BaseBranch)
		}
		return RefState{
			CommitSHA:     info.CommitSHA,
			TreeSHA:       info.TreeSHA,
			Branch:        req.BaseBranch,
			IsTarget:      req.BaseBranch == req.Branch,
			targetChecked: req.BaseBranch == req.Branch,
		}, nil
	}

	info, err := client.LookupRef(ctx, req.Owner, req.Repo, req.Branch)
	if err != nil {
		return RefState{}, err
	}
	if info != nil {
		return RefState{
			CommitSHA:     info.CommitSHA,
			TreeSHA:       info.TreeSHA,
			Branch:        req.Branch,
			IsTarget:      true,
			targetChecked: true,
		}, nil
	}

	// Target branch absent: base the commit on the default branch. The
	// absence is remembered so the ref write goes straight to create.
	def, err := client.LookupDefaultBranch(ctx, req.Owner, req.Repo)
	if err != nil {
		return RefState{}, err
	}
	return RefState{
		CommitSHA:     def.CommitSHA,
		TreeSHA:       def.TreeSHA,
		Branch:        def.Name,
		targetChecked: true,
	}, nil
}
