// Package gitutil infers repository coordinates from a local git checkout.
package gitutil

import (
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// InferOwnerRepo reads the origin remote of the repository containing
// path and parses its URL into owner and repository name. It is the last
// resort when neither flags nor CI environment name the repository.
func InferOwnerRepo(path string) (string, string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("failed to get origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}

	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts owner and repository name from a remote URL.
// Handles both forms:
//
//	https://github.com/owner/repo.git
//	git@github.com:owner/repo.git
func ParseRemoteURL(url string) (string, string, error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	if at := strings.Index(url, "@"); at >= 0 && !strings.Contains(url, "://") {
		// SSH format: git@host:owner/repo
		_, path, found := strings.Cut(url, ":")
		if !found {
			return "", "", fmt.Errorf("invalid SSH remote URL %q", url)
		}
		url = path
	}

	parts := strings.Split(strings.Trim(url, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid remote URL %q", url)
	}

	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]
	if owner == "" || repo == "" || strings.Contains(owner, ":") {
		return "", "", fmt.Errorf("invalid remote URL %q", url)
	}

	return owner, repo, nil
}
