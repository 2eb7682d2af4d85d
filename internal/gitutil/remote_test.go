package gitutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{"https", "https://github.com/acme/widgets.git", "acme", "widgets", true},
		{"https without suffix", "https://github.com/acme/widgets", "acme", "widgets", true},
		{"ssh", "git@github.com:acme/widgets.git", "acme", "widgets", true},
		{"ssh scheme", "ssh://git@github.com/acme/widgets.git", "acme", "widgets", true},
		{"enterprise host", "https://github.example.com/acme/widgets.git", "acme", "widgets", true},
		{"trailing newline", "https://github.com/acme/widgets.git\n", "acme", "widgets", true},
		{"no path", "https://github.com", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			owner, repo, err := ParseRemoteURL(tt.url)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.owner, owner)
			require.Equal(t, tt.repo, repo)
		})
	}
}
