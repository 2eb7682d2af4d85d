package commit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apierrors "apicommit.dev/apicommit/internal/errors"
	"apicommit.dev/apicommit/internal/github"
	"apicommit.dev/apicommit/internal/gitmeta"
)

// inspectWorkers bounds concurrent filesystem inspections
const inspectWorkers = 8

// buildEntries turns the requested additions and deletions into tree
// entries. Paths are inspected concurrently since entries are
// independent, but the returned order is deterministic: additions in
// input order, then deletions in input order.
func buildEntries(req *Request) ([]github.TreeEntry, error) {
	type job struct {
		index    int
		path     string
		deletion bool
	}

	jobs := make([]job, 0, len(req.Additions)+len(req.Deletions))
	for _, path := range req.Additions {
		jobs = append(jobs, job{index: len(jobs), path: path})
	}
	for _, path := range req.Deletions {
		jobs = append(jobs, job{index: len(jobs), path: path, deletion: true})
	}

	entries := make([]github.TreeEntry, len(jobs))
	errs := make([]error, len(jobs))

	sem := make(chan struct{}, inspectWorkers)
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			entries[j.index], errs[j.index] = buildEntry(req, j.path, j.deletion)
		}(j)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// buildEntry constructs the tree entry for one path
func buildEntry(req *Request, path string, deletion bool) (github.TreeEntry, error) {
	fullPath := path
	if req.Directory != "" {
		fullPath = filepath.Join(req.Directory, path)
	}

	info, err := gitmeta.Inspect(fullPath)
	if err != nil {
		return github.TreeEntry{}, err
	}

	if !info.Exists {
		if !req.TreatMissingAsDeletions {
			return github.TreeEntry{}, apierrors.NewFileNotFoundError(path)
		}
		// Implicit deletion marker with the default file mode
		return github.TreeEntry{
			Path:   path,
			Mode:   github.ModeFile,
			Type:   github.TypeBlob,
			Delete: true,
		}, nil
	}

	mode := gitmeta.EntryMode(info)
	kind := github.TypeBlob
	switch mode {
	case github.ModeSubmodule:
		kind = github.TypeCommit
	case github.ModeDirectory:
		kind = github.TypeTree
	}

	if deletion {
		// The entry kind must match the object being removed, so the
		// inspection result still decides mode and kind; content is
		// never carried. A directory deletion keeps the mode its own
		// stat produced, the same rule additions follow.
		return github.TreeEntry{Path: path, Mode: mode, Type: kind, Delete: true}, nil
	}

	switch kind {
	case github.TypeCommit:
		sha := info.SubmoduleSHA
		return github.TreeEntry{Path: path, Mode: mode, Type: kind, SHA: &sha}, nil
	case github.TypeTree:
		// No content: the remote descends using the existing subtree
		return github.TreeEntry{Path: path, Mode: mode, Type: kind}, nil
	}

	content, err := readBlobContent(fullPath, mode)
	if err != nil {
		return github.TreeEntry{}, err
	}
	return github.TreeEntry{Path: path, Mode: mode, Type: kind, Content: &content}, nil
}

// readBlobContent reads the blob text for a path. A symlink's blob is its
// target path, not the contents of the file it points at.
func readBlobContent(fullPath, mode string) (string, error) {
	if mode == github.ModeSymlink {
		target, err := os.Readlink(fullPath)
		if err != nil {
			return "", fmt.Errorf("failed to read symlink %s: %w", fullPath, err)
		}
		return target, nil
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", fullPath, err)
	}
	return string(content), nil
}
