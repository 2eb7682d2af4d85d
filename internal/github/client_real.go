package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	apierrors "apicommit.dev/apicommit/internal/errors"
)

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
}

// NewRealClient creates a new RealClient authenticated with token.
// apiURL overrides the API base URL for GitHub Enterprise; empty means
// github.com.
func NewRealClient(ctx context.Context, token, apiURL string) (*RealClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if apiURL != "" {
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API URL %s: %w", apiURL, err)
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		client.BaseURL = baseURL
	}

	return &RealClient{client: client}, nil
}

// CreateTree creates a tree object on top of baseTree
func (c *RealClient) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Delete && entry.SHA == nil && entry.Content == nil {
			// An entry with no object to point at means "keep the
			// existing subtree". The base tree already carries it, and
			// on the wire a SHA-less entry is indistinguishable from
			// the removal marker, so it must not be sent.
			continue
		}

		ghEntry := &github.TreeEntry{
			Path: github.String(entry.Path),
			Mode: github.String(entry.Mode),
			Type: github.String(entry.Type),
		}
		// A deletion carries neither SHA nor content; go-github serializes
		// that as an explicit "sha": null, which is the API's removal
		// marker. Entries pointing at existing objects pass their SHA.
		if !entry.Delete {
			if entry.Content != nil {
				ghEntry.Content = entry.Content
			}
			if entry.SHA != nil {
				ghEntry.SHA = entry.SHA
			}
		}
		ghEntries = append(ghEntries, ghEntry)
	}

	if len(ghEntries) == 0 {
		// Every entry resolved to the base tree's existing content
		return baseTree, nil
	}

	tree, _, err := c.client.Git.CreateTree(ctx, owner, repo, baseTree, ghEntries)
	if err != nil {
		return "", fmt.Errorf("failed to create tree: %w", err)
	}

	return tree.GetSHA(), nil
}

// CreateCommit creates a commit object
func (c *RealClient) CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (string, error) {
	parentCommits := make([]*github.Commit, 0, len(parents))
	for _, sha := range parents {
		parentCommits = append(parentCommits, &github.Commit{SHA: github.String(sha)})
	}

	commit := &github.Commit{
		Message: github.String(message),
		Tree:    &github.Tree{SHA: github.String(treeSHA)},
		Parents: parentCommits,
	}

	created, _, err := c.client.Git.CreateCommit(ctx, owner, repo, commit, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}

	return created.GetSHA(), nil
}

// UpdateRef moves an existing ref to sha
func (c *RealClient) UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (string, error) {
	reference := &github.Reference{
		Ref:    github.String(ref),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	updated, _, err := c.client.Git.UpdateRef(ctx, owner, repo, reference, force)
	if err != nil {
		if isRefMissing(err) {
			return "", apierrors.NewRefMissingError(ref, err)
		}
		return "", fmt.Errorf("failed to update ref %s: %w", ref, err)
	}

	return updated.GetObject().GetSHA(), nil
}

// CreateRef creates a new ref at sha
func (c *RealClient) CreateRef(ctx context.Context, owner, repo, ref, sha string) (string, error) {
	reference := &github.Reference{
		Ref:    github.String(ref),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	created, _, err := c.client.Git.CreateRef(ctx, owner, repo, reference)
	if err != nil {
		return "", fmt.Errorf("failed to create ref %s: %w", ref, err)
	}

	return created.GetObject().GetSHA(), nil
}

// LookupRef resolves a branch name to its commit and tree.
// Returns (nil, nil) when the branch does not exist.
func (c *RealClient) LookupRef(ctx context.Context, owner, repo, branch string) (*RefInfo, error) {
	reference, _, err := c.client.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up branch %s: %w", branch, err)
	}

	commitSHA := reference.GetObject().GetSHA()
	treeSHA, err := c.LookupCommitTree(ctx, owner, repo, commitSHA)
	if err != nil {
		return nil, err
	}

	return &RefInfo{CommitSHA: commitSHA, TreeSHA: treeSHA}, nil
}

// LookupDefaultBranch resolves the repository's default branch
func (c *RealClient) LookupDefaultBranch(ctx context.Context, owner, repo string) (*DefaultBranch, error) {
	repository, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}

	name := repository.GetDefaultBranch()
	info, err := c.LookupRef(ctx, owner, repo, name)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("default branch %s has no commits", name)
	}

	return &DefaultBranch{
		Name:      name,
		CommitSHA: info.CommitSHA,
		TreeSHA:   info.TreeSHA,
	}, nil
}

// LookupCommitTree returns the root tree SHA of a commit
func (c *RealClient) LookupCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error) {
	commit, _, err := c.client.Git.GetCommit(ctx, owner, repo, commitSHA)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", commitSHA, err)
	}

	return commit.GetTree().GetSHA(), nil
}

// isRefMissing reports whether err is the API's "reference does not exist"
// failure from a ref update. The string match is confined to this client;
// callers only ever see the structured ErrRefMissing signal.
func isRefMissing(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) {
		return false
	}
	if errResp.Response != nil && errResp.Response.StatusCode == http.StatusUnprocessableEntity {
		return strings.Contains(errResp.Message, "does not exist")
	}
	return false
}

// isNotFound reports whether err is an API 404
func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) {
		return false
	}
	return errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
}
