package commit

import (
	"context"
	"errors"
	"fmt"

	apierrors "apicommit.dev/apicommit/internal/errors"
	"apicommit.dev/apicommit/internal/github"
	"apicommit.dev/apicommit/internal/output"
)

// Perform builds one commit on the remote and points the branch ref at
// it, creating the branch when it does not exist.
//
// A request with no additions, no deletions, and AllowEmpty unset is a
// no-op: Perform returns (nil, nil) without contacting the remote. Remote
// writes are strictly sequential since each depends on the SHA returned
// by the previous. No retries are attempted; trees and commits already
// written when a later step fails are immutable and harmless if orphaned.
func Perform(ctx context.Context, client github.Client, splog *output.Splog, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if !req.hasChanges() && !req.AllowEmpty {
		splog.Debug("no additions or deletions and empty commits not allowed, nothing to do")
		return nil, nil
	}

	base, err := resolveBase(ctx, client, &req)
	if err != nil {
		return nil, err
	}
	if base.Branch != "" {
		splog.Debug("resolved base %s from branch %s", base.CommitSHA, base.Branch)
	} else {
		splog.Debug("resolved base %s", base.CommitSHA)
	}

	treeSHA := base.TreeSHA
	if req.hasChanges() {
		entries, err := buildEntries(&req)
		if err != nil {
			return nil, err
		}

		treeSHA, err = client.CreateTree(ctx, req.Owner, req.Repo, base.TreeSHA, entries)
		if err != nil {
			return nil, err
		}
		splog.Debug("created tree %s with %d entries", treeSHA, len(entries))
	} else {
		// Intentionally empty commit: the base tree is reused verbatim
		splog.Debug("empty commit, reusing tree %s", treeSHA)
	}

	var parents []string
	if !req.NoParent {
		parents = []string{base.CommitSHA}
	}

	commitSHA, err := client.CreateCommit(ctx, req.Owner, req.Repo, req.Message, treeSHA, parents)
	if err != nil {
		return nil, err
	}
	splog.Debug("created commit %s", commitSHA)

	if err := upsertRef(ctx, client, splog, &req, base, commitSHA); err != nil {
		return nil, err
	}

	return &Result{CommitSHA: commitSHA}, nil
}

// upsertRef points the target branch at commitSHA, updating the ref when
// the branch exists and creating it otherwise.
//
// When resolution did not already establish whether the target branch
// exists (explicit base SHA or a different base branch), a live lookup
// just before the write decides. The update path falls back to create
// only on the structured ref-missing signal; every other update failure
// propagates unchanged so real errors, such as rejected non-fast-forward
// pushes, are never masked.
func upsertRef(ctx context.Context, client github.Client, splog *output.Splog, req *Request, base RefState, commitSHA string) error {
	exists := base.IsTarget
	if !base.targetChecked {
		info, err := client.LookupRef(ctx, req.Owner, req.Repo, req.Branch)
		if err != nil {
			return err
		}
		exists = info != nil
	}

	if exists {
		_, err := client.UpdateRef(ctx, req.Owner, req.Repo, "heads/"+req.Branch, commitSHA, req.Force)
		if err == nil {
			splog.Info("updated %s to %s", req.Branch, commitSHA)
			return nil
		}
		if !errors.Is(err, apierrors.ErrRefMissing) {
			return err
		}
		// The branch vanished between the lookup and the write; fall
		// through to creation.
	}

	if _, err := client.CreateRef(ctx, req.Owner, req.Repo, "refs/heads/"+req.Branch, commitSHA); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", req.Branch, err)
	}
	splog.Info("created %s at %s", req.Branch, commitSHA)
	return nil
}
