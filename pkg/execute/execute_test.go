package execute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTimeout(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  time.Duration
	}{
		{"zero uses default", 0, 30 * time.Second},
		{"negative uses default", -time.Second, 30 * time.Second},
		{"explicit wins", 5 * time.Second, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultTimeout(tt.input))
		})
	}
}

func TestBuildCommandString(t *testing.T) {
	got := buildCommandString("icacls", `C:\cygwin64`, "/grant", "Administrators:F")
	assert.Equal(t, `icacls C:\cygwin64 /grant Administrators:F`, got)
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	out, err := Run(context.Background(), Options{
		Command: "definitely-not-a-real-binary",
		Args:    []string{"--flag"},
		DryRun:  true,
		Capture: true,
	})
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunWrapsFailure(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Command: "definitely-not-a-real-binary",
		Timeout: 2 * time.Second,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "command failed after 1 attempts")
}
