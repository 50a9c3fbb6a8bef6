package scrubber

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

func TestScrubEnvironmentRewritesPath(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\cygwin64\bin;C:\Program Files\Java\bin`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	writes := f.env.writesTo("PATH")
	require.Len(t, writes, 1)
	assert.Equal(t, winsys.ScopeMachine, writes[0].scope)
	assert.Equal(t, `C:\Windows;C:\Program Files\Java\bin`, writes[0].value)
	assert.Equal(t, 1, report.Count(OutcomeRemoved))
}

func TestScrubEnvironmentCleanPathNeverWritten(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\Program Files\Java\bin`)
	f.env.setVar(winsys.ScopeUser, "PATH", `C:\Users\jane\bin`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	assert.Empty(t, f.env.writes)
	assert.Empty(t, report.Actions)
}

func TestScrubEnvironmentKeptSegmentsUntouched(t *testing.T) {
	f := newFixture()
	// Kept segments come through byte for byte, unusual spacing and
	// trailing separators included.
	f.env.setVar(winsys.ScopeUser, "PATH",
		`C:\Program Files (x86)\Common Files; D:\Odd Spacing \bin;C:\cygwin\bin;E:\trail\`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	writes := f.env.writesTo("PATH")
	require.Len(t, writes, 1)
	assert.Equal(t, `C:\Program Files (x86)\Common Files; D:\Odd Spacing \bin;E:\trail\`, writes[0].value)
}

func TestScrubEnvironmentDropsEmptySegments(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;;C:\cygwin64\bin;`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	writes := f.env.writesTo("PATH")
	require.Len(t, writes, 1)
	assert.Equal(t, `C:\Windows`, writes[0].value)
}

func TestScrubEnvironmentMatchesSegmentsCaseInsensitively(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\CYGWIN64\BIN;D:\Apps\Cygwin\bin`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	writes := f.env.writesTo("PATH")
	require.Len(t, writes, 1)
	assert.Equal(t, `C:\Windows`, writes[0].value)
}

func TestScrubEnvironmentAbsentPathIgnored(t *testing.T) {
	f := newFixture()
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	assert.Empty(t, f.env.writes)
	assert.Empty(t, report.Actions)
}

func TestScrubEnvironmentUnsetsProductVariable(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "CYGWIN", "winsymlinks:nativestrict")
	f.env.setVar(winsys.ScopeUser, "CYGWIN", "")
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	// Present-but-empty still counts as present and is unset too.
	require.Len(t, f.env.unsets, 2)
	_, ok, err := f.env.Get(winsys.ScopeMachine, "CYGWIN")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = f.env.Get(winsys.ScopeUser, "CYGWIN")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, report.Count(OutcomeRemoved))
}

func TestScrubEnvironmentScopesIndependent(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\cygwin64\bin`)
	f.env.setVar(winsys.ScopeUser, "PATH", `C:\Users\jane\bin;C:\cygwin64\bin`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	writes := f.env.writesTo("PATH")
	require.Len(t, writes, 2)
	assert.Equal(t, winsys.ScopeMachine, writes[0].scope)
	assert.Equal(t, `C:\Windows`, writes[0].value)
	assert.Equal(t, winsys.ScopeUser, writes[1].scope)
	assert.Equal(t, `C:\Users\jane\bin`, writes[1].value)
}

func TestScrubEnvironmentReadFailureRecorded(t *testing.T) {
	f := newFixture()
	f.env.getErr = map[string]error{
		envKeyFor(winsys.ScopeMachine, "PATH"): errors.New("access denied"),
	}
	f.env.setVar(winsys.ScopeUser, "PATH", `C:\Users\jane\bin;C:\cygwin64\bin`)
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	// The machine failure is recorded; the user scope still gets
	// scrubbed.
	assert.Equal(t, 1, report.Count(OutcomeFailed))
	require.Len(t, f.env.writesTo("PATH"), 1)
	assert.Equal(t, winsys.ScopeUser, f.env.writesTo("PATH")[0].scope)
}

func TestScrubEnvironmentWriteFailureRecorded(t *testing.T) {
	f := newFixture()
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\cygwin64\bin`)
	f.env.setErr = map[string]error{
		envKeyFor(winsys.ScopeMachine, "PATH"): errors.New("access denied"),
	}
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	assert.Equal(t, 1, report.Count(OutcomeFailed))
	require.Error(t, report.Failures())
}

func TestScrubEnvironmentDryRun(t *testing.T) {
	f := newFixture()
	f.pipeline.Options.DryRun = true
	f.env.setVar(winsys.ScopeMachine, "PATH", `C:\Windows;C:\cygwin64\bin`)
	f.env.setVar(winsys.ScopeUser, "CYGWIN", "glob")
	report := NewReport("Cygwin", true)

	f.pipeline.ScrubEnvironment(testRC(t), report)

	assert.Empty(t, f.env.writes)
	assert.Empty(t, f.env.unsets)
	assert.Equal(t, 2, report.Count(OutcomePlanned))
}
