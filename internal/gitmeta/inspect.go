package gitmeta

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"apicommit.dev/apicommit/internal/github"
)

const gitdirPrefix = "gitdir:"

// Info is the classification of a filesystem path for tree construction
type Info struct {
	Exists       bool
	IsDir        bool
	Mode         fs.FileMode
	IsSubmodule  bool
	SubmoduleSHA string
}

// Inspect classifies the path at fullPath. A directory whose ".git" child
// is a regular file containing a gitdir pointer is a submodule mount
// point; its pinned commit SHA is resolved from the linked git directory.
func Inspect(fullPath string) (Info, error) {
	stat, err := os.Lstat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, nil
		}
		return Info{}, fmt.Errorf("failed to stat %s: %w", fullPath, err)
	}

	info := Info{
		Exists: true,
		IsDir:  stat.IsDir(),
		Mode:   stat.Mode(),
	}

	if !info.IsDir {
		return info, nil
	}

	gitdir, ok, err := submoduleGitDir(fullPath)
	if err != nil {
		return Info{}, err
	}
	if !ok {
		return info, nil
	}

	sha, err := ResolveHead(DirStore{Dir: gitdir})
	if err != nil {
		return Info{}, err
	}

	info.IsSubmodule = true
	info.SubmoduleSHA = sha
	return info, nil
}

// submoduleGitDir returns the git directory a mount point links to.
// In a submodule checkout ".git" is a regular file of the form
// "gitdir: <path>", with the path relative to the mount point unless
// absolute.
func submoduleGitDir(mountPoint string) (string, bool, error) {
	gitPath := filepath.Join(mountPoint, ".git")
	stat, err := os.Lstat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		// Anything else, such as permission denied, must surface rather
		// than silently misclassify a submodule as a plain directory
		return "", false, fmt.Errorf("failed to stat %s: %w", gitPath, err)
	}
	if !stat.Mode().IsRegular() {
		// A .git directory: an ordinary repository, not a submodule
		return "", false, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", gitPath, err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, gitdirPrefix) {
			continue
		}
		gitdir := strings.TrimSpace(strings.TrimPrefix(line, gitdirPrefix))
		if gitdir == "" {
			return "", false, nil
		}
		if !filepath.IsAbs(gitdir) {
			gitdir = filepath.Join(mountPoint, gitdir)
		}
		return gitdir, true, nil
	}

	return "", false, nil
}

// EntryMode maps a POSIX file mode to the six-digit tree entry mode.
// Unrecognized mode bits fall back to the plain file mode rather than
// failing.
func EntryMode(info Info) string {
	switch {
	case info.IsSubmodule:
		return github.ModeSubmodule
	case info.IsDir:
		return github.ModeDirectory
	case info.Mode&fs.ModeSymlink != 0:
		return github.ModeSymlink
	case info.Mode.IsRegular() && info.Mode.Perm()&0o111 != 0:
		return github.ModeExecutable
	default:
		return github.ModeFile
	}
}
