// Package testhelpers provides test fixtures: an in-memory remote
// object-write service and on-disk submodule layouts.
package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apierrors "apicommit.dev/apicommit/internal/errors"
	"apicommit.dev/apicommit/internal/github"
)

// CreatedTree records one CreateTree call
type CreatedTree struct {
	SHA      string
	BaseTree string
	Entries  []github.TreeEntry
}

// CreatedCommit records one CreateCommit call
type CreatedCommit struct {
	SHA     string
	Message string
	TreeSHA string
	Parents []string
}

// FakeRemote implements github.Client in memory, recording every call in
// order so tests can assert on call sequences and payloads.
type FakeRemote struct {
	mu sync.Mutex

	DefaultBranch string
	Branches      map[string]github.RefInfo
	CommitTrees   map[string]string

	Calls   []string
	Trees   []CreatedTree
	Commits []CreatedCommit

	// Forces records the force flag of each UpdateRef call
	Forces []bool

	// UpdateRefErr is returned from the next UpdateRef call when set
	UpdateRefErr error

	seq int
}

// NewFakeRemote creates a remote with a default branch at the given
// commit and tree
func NewFakeRemote(defaultBranch, commitSHA, treeSHA string) *FakeRemote {
	return &FakeRemote{
		DefaultBranch: defaultBranch,
		Branches: map[string]github.RefInfo{
			defaultBranch: {CommitSHA: commitSHA, TreeSHA: treeSHA},
		},
		CommitTrees: map[string]string{commitSHA: treeSHA},
	}
}

func (f *FakeRemote) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *FakeRemote) nextSHA(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// CreateTree records the request and returns a generated tree SHA
func (f *FakeRemote) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []github.TreeEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTree")

	sha := f.nextSHA("tree")
	f.Trees = append(f.Trees, CreatedTree{SHA: sha, BaseTree: baseTree, Entries: entries})
	return sha, nil
}

// CreateCommit records the request and returns a generated commit SHA
func (f *FakeRemote) CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCommit")

	sha := f.nextSHA("commit")
	f.Commits = append(f.Commits, CreatedCommit{SHA: sha, Message: message, TreeSHA: treeSHA, Parents: parents})
	f.CommitTrees[sha] = treeSHA
	return sha, nil
}

// UpdateRef moves an existing branch, failing with the ref-missing signal
// when the branch is absent
func (f *FakeRemote) UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateRef")
	f.Forces = append(f.Forces, force)

	if f.UpdateRefErr != nil {
		err := f.UpdateRefErr
		f.UpdateRefErr = nil
		return "", err
	}

	branch := refBranch(ref)
	if _, ok := f.Branches[branch]; !ok {
		return "", apierrors.NewRefMissingError(ref, nil)
	}

	f.Branches[branch] = github.RefInfo{CommitSHA: sha, TreeSHA: f.CommitTrees[sha]}
	return sha, nil
}

// CreateRef creates a new branch, failing when it already exists
func (f *FakeRemote) CreateRef(ctx context.Context, owner, repo, ref, sha string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateRef")

	branch := refBranch(ref)
	if _, ok := f.Branches[branch]; ok {
		return "", fmt.Errorf("reference already exists: %s", ref)
	}

	f.Branches[branch] = github.RefInfo{CommitSHA: sha, TreeSHA: f.CommitTrees[sha]}
	return sha, nil
}

// LookupRef returns the branch tip, or (nil, nil) when absent
func (f *FakeRemote) LookupRef(ctx context.Context, owner, repo, branch string) (*github.RefInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LookupRef")

	info, ok := f.Branches[branch]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// LookupDefaultBranch returns the configured default branch
func (f *FakeRemote) LookupDefaultBranch(ctx context.Context, owner, repo string) (*github.DefaultBranch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LookupDefaultBranch")

	info, ok := f.Branches[f.DefaultBranch]
	if !ok {
		return nil, fmt.Errorf("default branch %s has no commits", f.DefaultBranch)
	}
	return &github.DefaultBranch{
		Name:      f.DefaultBranch,
		CommitSHA: info.CommitSHA,
		TreeSHA:   info.TreeSHA,
	}, nil
}

// LookupCommitTree returns the tree of a known commit
func (f *FakeRemote) LookupCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LookupCommitTree")

	tree, ok := f.CommitTrees[commitSHA]
	if !ok {
		return "", fmt.Errorf("unknown commit %s", commitSHA)
	}
	return tree, nil
}

// AddCommit registers a commit/tree pair without going through
// CreateCommit, for seeding explicit base SHAs
func (f *FakeRemote) AddCommit(commitSHA, treeSHA string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CommitTrees[commitSHA] = treeSHA
}

// AddBranch registers a branch tip directly
func (f *FakeRemote) AddBranch(branch, commitSHA, treeSHA string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Branches[branch] = github.RefInfo{CommitSHA: commitSHA, TreeSHA: treeSHA}
	f.CommitTrees[commitSHA] = treeSHA
}

// refBranch strips the heads/ or refs/heads/ prefix from a ref name
func refBranch(ref string) string {
	ref = strings.TrimPrefix(ref, "refs/")
	return strings.TrimPrefix(ref, "heads/")
}
