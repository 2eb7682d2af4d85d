// Package commit builds a single commit on a remote repository through
// its object-write API: it resolves the base state, constructs tree
// entries from local filesystem paths, creates the tree and commit
// objects, and points the branch ref at the result.
package commit

import (
	apierrors "apicommit.dev/apicommit/internal/errors"
)

// Request describes one commit to build. All fields are read-only once
// the request is handed to Perform.
type Request struct {
	Owner   string
	Repo    string
	Branch  string
	Message string

	// Directory is the local root that addition and deletion paths are
	// resolved against. Empty means the current working directory.
	Directory string

	// Additions and Deletions are repo-relative paths. Addition content
	// is read from disk under Directory.
	Additions []string
	Deletions []string

	// AllowEmpty permits a commit with no file changes; the base tree is
	// reused verbatim.
	AllowEmpty bool

	// BaseSHA pins the parent commit explicitly. Takes priority over
	// BaseBranch.
	BaseSHA string

	// BaseBranch names the branch whose tip becomes the parent. It is an
	// error for the named branch to be absent.
	BaseBranch string

	// NoParent creates a root commit with zero parents regardless of the
	// resolved base state.
	NoParent bool

	// TreatMissingAsDeletions turns paths that do not exist on disk into
	// deletion entries instead of failing. This lets callers request
	// deletion of paths without knowing whether they still exist.
	TreatMissingAsDeletions bool

	// Force moves the branch ref even when the new commit is not a
	// fast-forward of the current tip.
	Force bool
}

// validate checks the required fields, failing with a ConfigurationError
// naming the first missing one
func (r *Request) validate() error {
	switch {
	case r.Owner == "":
		return apierrors.NewConfigurationError("owner")
	case r.Repo == "":
		return apierrors.NewConfigurationError("repo")
	case r.Branch == "":
		return apierrors.NewConfigurationError("branch")
	case r.Message == "":
		return apierrors.NewConfigurationError("message")
	}
	return nil
}

// hasChanges reports whether any file additions or deletions were requested
func (r *Request) hasChanges() bool {
	return len(r.Additions) > 0 || len(r.Deletions) > 0
}

// RefState is a resolved (commit, tree) pair used as the base for the new
// tree and, unless NoParent is set, as the commit's parent. Read-only
// after resolution.
type RefState struct {
	CommitSHA string
	TreeSHA   string

	// Branch is the branch name the state was resolved from, when it was
	// resolved by name rather than by explicit SHA.
	Branch string

	// IsTarget records that the target branch itself was the one
	// resolved, which selects the ref-update path over ref-create.
	IsTarget bool

	// targetChecked records whether the target branch's existence is
	// already known from resolution. When it is not, the ref upsert does
	// a live existence check just before the ref write.
	targetChecked bool
}

// Result is the terminal output of a performed commit
type Result struct {
	CommitSHA string
}
