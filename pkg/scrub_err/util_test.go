package scrub_err

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr runs fn with os.Stderr redirected to a pipe and
// returns what was written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	outputCh := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(r)
		outputCh <- string(data)
	}()

	fn()

	require.NoError(t, w.Close())
	os.Stderr = original
	return <-outputCh
}

func TestSetDebugMode(t *testing.T) {
	originalDebug := debugMode
	defer func() { debugMode = originalDebug }()

	SetDebugMode(true)
	assert.True(t, DebugEnabled())

	SetDebugMode(false)
	assert.False(t, DebugEnabled())
}

func TestExtractSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		output        string
		maxCandidates int
		want          string
	}{
		{
			name:          "empty output",
			output:        "",
			maxCandidates: 3,
			want:          "No output provided.",
		},
		{
			name:          "whitespace only",
			output:        "   \n\n   ",
			maxCandidates: 3,
			want:          "No output provided.",
		},
		{
			name:          "single error line",
			output:        "ERROR: Access is denied.",
			maxCandidates: 3,
			want:          "ERROR: Access is denied.",
		},
		{
			name:          "multiple candidates truncated",
			output:        "INFO: starting\nERROR: open failed\nAccess denied\nFATAL: giving up",
			maxCandidates: 2,
			want:          "ERROR: open failed - Access denied",
		},
		{
			name:          "no keywords falls back to first line",
			output:        "SUCCESS: 3 files processed\nDone.",
			maxCandidates: 3,
			want:          "SUCCESS: 3 files processed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSummary(tt.output, tt.maxCandidates))
		})
	}
}

func TestExpectedUserError(t *testing.T) {
	t.Parallel()

	base := errors.New("operation declined")
	wrapped := NewExpectedError(base)

	require.Error(t, wrapped)
	assert.True(t, IsExpectedUserError(wrapped))
	assert.Equal(t, "operation declined", wrapped.Error())
	assert.Equal(t, base, errors.Unwrap(wrapped))

	assert.Nil(t, NewExpectedError(nil))
	assert.False(t, IsExpectedUserError(errors.New("boom")))
	assert.False(t, IsExpectedUserError(nil))
}

func TestExpectedUserErrorSurvivesWrapping(t *testing.T) {
	t.Parallel()

	inner := NewExpectedError(errors.New("declined"))
	outer := fmt.Errorf("while confirming: %w", inner)
	assert.True(t, IsExpectedUserError(outer))

	stacked := cerr.WithStack(inner)
	assert.True(t, IsExpectedUserError(stacked))
}

func TestErrNotElevated(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("precondition: %w", ErrNotElevated)
	assert.True(t, errors.Is(err, ErrNotElevated))
	assert.False(t, IsExpectedUserError(err))
}

func TestPrintError(t *testing.T) {
	originalDebug := debugMode
	defer func() { debugMode = originalDebug }()
	debugMode = false

	tests := []struct {
		name     string
		message  string
		err      error
		contains []string
	}{
		{
			name:    "nil error prints nothing",
			message: "operation completed",
			err:     nil,
		},
		{
			name:     "system error",
			message:  "connection failed",
			err:      errors.New("timeout occurred"),
			contains: []string{"Error: connection failed", "timeout occurred"},
		},
		{
			name:     "expected user error",
			message:  "confirmation declined",
			err:      NewExpectedError(errors.New("aborted by user")),
			contains: []string{"Notice: confirmation declined", "aborted by user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStderr(t, func() {
				PrintError(tt.message, tt.err)
			})

			if len(tt.contains) == 0 {
				assert.Empty(t, output)
				return
			}
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(output, want),
					"output %q should contain %q", output, want)
			}
		})
	}
}
