// Package gitmeta reads git metadata from disk: it classifies filesystem
// paths for tree construction and resolves the pinned commit of submodule
// mount points from HEAD, loose ref files, and packed-refs.
package gitmeta

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	apierrors "apicommit.dev/apicommit/internal/errors"
)

const symbolicRefPrefix = "ref: "

// RefStore is the read capability ref resolution runs over. Names are
// slash-separated paths relative to the git directory ("HEAD",
// "refs/heads/main", "packed-refs"). Implementations return an error
// satisfying os.IsNotExist semantics for absent names.
type RefStore interface {
	ReadFile(name string) ([]byte, error)
}

// DirStore is a RefStore over a git directory on disk
type DirStore struct {
	Dir string
}

// ReadFile reads the named metadata file from the git directory
func (s DirStore) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(name)))
}

// ResolveHead resolves the commit SHA the store's HEAD points at.
//
// A HEAD without the symbolic-ref prefix is a detached HEAD and its
// trimmed content is the SHA. Otherwise the ref path is read as a loose
// ref file first and packed-refs is only consulted when the loose file is
// absent: a loose ref always overrides a stale packed entry.
func ResolveHead(store RefStore) (string, error) {
	head, err := store.ReadFile("HEAD")
	if err != nil {
		return "", apierrors.NewRefResolutionError("HEAD")
	}

	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, symbolicRefPrefix) {
		// Detached HEAD
		return content, nil
	}

	refName := strings.TrimSpace(strings.TrimPrefix(content, symbolicRefPrefix))
	if refName == "" {
		return "", apierrors.NewRefResolutionError("HEAD")
	}

	if loose, err := store.ReadFile(refName); err == nil {
		sha := strings.TrimSpace(string(loose))
		if sha != "" {
			return sha, nil
		}
	}

	return resolvePacked(store, refName)
}

// resolvePacked scans packed-refs for an exact refName match
func resolvePacked(store RefStore, refName string) (string, error) {
	packed, err := store.ReadFile("packed-refs")
	if err != nil {
		return "", apierrors.NewRefResolutionError(refName)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(packed)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			// Comments and peeled-tag lines carry no ref names
			continue
		}

		sha, name, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		if name == refName {
			return sha, nil
		}
	}

	return "", apierrors.NewRefResolutionError(refName)
}
