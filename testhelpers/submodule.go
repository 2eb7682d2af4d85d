package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SubmoduleFixture describes the git metadata of a submodule checkout
type SubmoduleFixture struct {
	// HeadRef is the symbolic ref HEAD points at, e.g. "refs/heads/main".
	// Empty means a detached HEAD at DetachedSHA.
	HeadRef string

	// DetachedSHA is the commit HEAD holds directly when HeadRef is empty
	DetachedSHA string

	// LooseRefs maps full ref names to SHAs written as loose ref files
	LooseRefs map[string]string

	// PackedRefs maps full ref names to SHAs listed in packed-refs
	PackedRefs map[string]string
}

// WriteSubmodule lays out a submodule mount point at mount: a ".git"
// file pointing at a sibling git directory populated from fixture.
// Returns the git directory path.
func WriteSubmodule(t *testing.T, mount string, fixture SubmoduleFixture) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(mount, 0o755))

	gitdir := filepath.Join(filepath.Dir(mount), ".git", "modules", filepath.Base(mount))
	require.NoError(t, os.MkdirAll(gitdir, 0o755))

	rel, err := filepath.Rel(mount, gitdir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(mount, ".git"), []byte(fmt.Sprintf("gitdir: %s\n", rel)), 0o644))

	WriteGitDir(t, gitdir, fixture)
	return gitdir
}

// WriteGitDir populates a bare git directory with the fixture's HEAD,
// loose refs, and packed-refs
func WriteGitDir(t *testing.T, gitdir string, fixture SubmoduleFixture) {
	t.Helper()

	head := fixture.DetachedSHA
	if fixture.HeadRef != "" {
		head = "ref: " + fixture.HeadRef
	}
	require.NoError(t, os.WriteFile(filepath.Join(gitdir, "HEAD"), []byte(head+"\n"), 0o644))

	for ref, sha := range fixture.LooseRefs {
		path := filepath.Join(gitdir, filepath.FromSlash(ref))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(sha+"\n"), 0o644))
	}

	if len(fixture.PackedRefs) > 0 {
		var b strings.Builder
		b.WriteString("# pack-refs with: peeled fully-peeled sorted \n")
		names := make([]string, 0, len(fixture.PackedRefs))
		for ref := range fixture.PackedRefs {
			names = append(names, ref)
		}
		sort.Strings(names)
		for _, ref := range names {
			fmt.Fprintf(&b, "%s %s\n", fixture.PackedRefs[ref], ref)
		}
		require.NoError(t, os.WriteFile(filepath.Join(gitdir, "packed-refs"), []byte(b.String()), 0o644))
	}
}
