package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", NewConfigurationError("owner"), ErrConfiguration},
		{"ref not found", NewRefNotFoundError("main"), ErrRefNotFound},
		{"file not found", NewFileNotFoundError("a.txt"), ErrFileNotFound},
		{"ref resolution", NewRefResolutionError("refs/heads/main"), ErrRefResolution},
		{"ref missing", NewRefMissingError("heads/main", nil), ErrRefMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}
}

func TestRefMissingUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("422 Reference does not exist")
	err := NewRefMissingError("heads/main", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "heads/main")
}
