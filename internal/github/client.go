// Package github provides a client for the remote object-write service:
// the Git Data API used to create trees, commits, and refs without a
// local clone.
package github

import (
	"context"
)

// Tree entry modes accepted by the remote tree endpoint.
const (
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeDirectory  = "040000"
	ModeSubmodule  = "160000"
	ModeSymlink    = "120000"
)

// Tree entry object kinds.
const (
	TypeBlob   = "blob"
	TypeTree   = "tree"
	TypeCommit = "commit"
)

// TreeEntry describes one path in a tree creation request.
// This is a simplified struct to avoid coupling to go-github library.
//
// Exactly one of the following holds per entry: Content is set (blob with
// inline text), Delete is true (remove the path from the base tree), or
// the entry is a tree/commit kind carrying at most a SHA and no content.
type TreeEntry struct {
	Path    string
	Mode    string
	Type    string
	Content *string
	SHA     *string
	Delete  bool
}

// RefInfo is a resolved reference: the commit it points at and that
// commit's root tree.
type RefInfo struct {
	CommitSHA string
	TreeSHA   string
}

// DefaultBranch is the repository's default branch with its resolved tip.
type DefaultBranch struct {
	Name      string
	CommitSHA string
	TreeSHA   string
}

// Client is an interface for remote Git object and ref operations
type Client interface {
	// CreateTree creates a tree object. Entries omitted from the request
	// but present in baseTree remain in the result unless marked Delete.
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error)

	// CreateCommit creates a commit object pointing at treeSHA with the
	// given parents (zero parents produces a root commit).
	CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (string, error)

	// UpdateRef moves an existing ref (e.g. "heads/main") to sha. When the
	// ref does not exist the returned error satisfies
	// errors.Is(err, apierrors.ErrRefMissing). Unless force is set the
	// remote rejects non-fast-forward updates.
	UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (string, error)

	// CreateRef creates a new ref (e.g. "refs/heads/feature") at sha.
	CreateRef(ctx context.Context, owner, repo, ref, sha string) (string, error)

	// LookupRef resolves a branch name to its commit and tree.
	// Returns (nil, nil) when the branch does not exist.
	LookupRef(ctx context.Context, owner, repo, branch string) (*RefInfo, error)

	// LookupDefaultBranch resolves the repository's default branch.
	LookupDefaultBranch(ctx context.Context, owner, repo string) (*DefaultBranch, error)

	// LookupCommitTree returns the root tree SHA of a commit.
	LookupCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error)
}
