package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	apierrors "apicommit.dev/apicommit/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *RealClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewRealClient(context.Background(), "test-token", server.URL)
	require.NoError(t, err)
	return client
}

func TestCreateTreeWireFormat(t *testing.T) {
	t.Parallel()

	var body string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/git/trees", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		fmt.Fprint(w, `{"sha":"tree-1"}`)
	})

	client := newTestClient(t, mux)

	content := "hello"
	submoduleSHA := "aaaa1111aaaa1111aaaa1111aaaa1111aaaa1111"
	entries := []TreeEntry{
		{Path: "a.txt", Mode: ModeFile, Type: TypeBlob, Content: &content},
		{Path: "vendored", Mode: ModeSubmodule, Type: TypeCommit, SHA: &submoduleSHA},
		{Path: "old.txt", Mode: ModeFile, Type: TypeBlob, Delete: true},
	}

	sha, err := client.CreateTree(context.Background(), "acme", "widgets", "base-tree", entries)
	require.NoError(t, err)
	require.Equal(t, "tree-1", sha)

	require.Contains(t, body, `"base_tree":"base-tree"`)
	require.Contains(t, body, `"content":"hello"`)
	require.Contains(t, body, `"sha":"aaaa1111aaaa1111aaaa1111aaaa1111aaaa1111"`)
	// A deletion is an explicit null SHA, the API's removal marker
	require.Contains(t, body, `"sha":null`)
}

func TestCreateTreeDirectoryEntries(t *testing.T) {
	t.Parallel()

	t.Run("directory addition is omitted from the request, never a removal", func(t *testing.T) {
		t.Parallel()
		var body string
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/widgets/git/trees", func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			fmt.Fprint(w, `{"sha":"tree-1"}`)
		})

		client := newTestClient(t, mux)

		content := "hello"
		entries := []TreeEntry{
			{Path: "a.txt", Mode: ModeFile, Type: TypeBlob, Content: &content},
			{Path: "docs", Mode: ModeDirectory, Type: TypeTree},
		}

		sha, err := client.CreateTree(context.Background(), "acme", "widgets", "base-tree", entries)
		require.NoError(t, err)
		require.Equal(t, "tree-1", sha)

		require.Contains(t, body, `"content":"hello"`)
		// The subtree already lives in the base tree; a SHA-less entry on
		// the wire would read as the removal marker
		require.NotContains(t, body, `"path":"docs"`)
		require.NotContains(t, body, `"sha":null`)
	})

	t.Run("only directory additions reuse the base tree with no remote call", func(t *testing.T) {
		t.Parallel()
		calls := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		})

		client := newTestClient(t, mux)

		entries := []TreeEntry{
			{Path: "docs", Mode: ModeDirectory, Type: TypeTree},
		}

		sha, err := client.CreateTree(context.Background(), "acme", "widgets", "base-tree", entries)
		require.NoError(t, err)
		require.Equal(t, "base-tree", sha)
		require.Zero(t, calls)
	})
}

func TestUpdateRefClassification(t *testing.T) {
	t.Parallel()

	t.Run("reference does not exist maps to the ref-missing signal", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/widgets/git/refs/heads/ghost", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Reference does not exist"}`)
		})

		client := newTestClient(t, mux)

		_, err := client.UpdateRef(context.Background(), "acme", "widgets", "heads/ghost", "c1", false)
		require.ErrorIs(t, err, apierrors.ErrRefMissing)
	})

	t.Run("other failures propagate unchanged", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/widgets/git/refs/heads/main", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Update is not a fast forward"}`)
		})

		client := newTestClient(t, mux)

		_, err := client.UpdateRef(context.Background(), "acme", "widgets", "heads/main", "c1", false)
		require.Error(t, err)
		require.False(t, errors.Is(err, apierrors.ErrRefMissing))
	})
}

func TestLookupRef(t *testing.T) {
	t.Parallel()

	t.Run("resolves commit and tree", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/widgets/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"c9","type":"commit"}}`)
		})
		mux.HandleFunc("/repos/acme/widgets/git/commits/c9", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"sha":"c9","tree":{"sha":"t9"}}`)
		})

		client := newTestClient(t, mux)

		info, err := client.LookupRef(context.Background(), "acme", "widgets", "main")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "c9", info.CommitSHA)
		require.Equal(t, "t9", info.TreeSHA)
	})

	t.Run("absent branch is nil, not an error", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/widgets/git/ref/heads/ghost", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})

		client := newTestClient(t, mux)

		info, err := client.LookupRef(context.Background(), "acme", "widgets", "ghost")
		require.NoError(t, err)
		require.Nil(t, info)
	})
}

func TestLookupDefaultBranch(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"widgets","default_branch":"develop"}`)
	})
	mux.HandleFunc("/repos/acme/widgets/git/ref/heads/develop", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref":"refs/heads/develop","object":{"sha":"c5","type":"commit"}}`)
	})
	mux.HandleFunc("/repos/acme/widgets/git/commits/c5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"c5","tree":{"sha":"t5"}}`)
	})

	client := newTestClient(t, mux)

	def, err := client.LookupDefaultBranch(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	require.Equal(t, "develop", def.Name)
	require.Equal(t, "c5", def.CommitSHA)
	require.Equal(t, "t5", def.TreeSHA)
}

func TestIsRefMissing(t *testing.T) {
	t.Parallel()

	missing := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusUnprocessableEntity},
		Message:  "Reference does not exist",
	}
	require.True(t, isRefMissing(missing))
	require.True(t, isRefMissing(fmt.Errorf("wrapped: %w", missing)))

	forbidden := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  "Resource not accessible by integration",
	}
	require.False(t, isRefMissing(forbidden))
	require.False(t, isRefMissing(errors.New("plain error")))
}
