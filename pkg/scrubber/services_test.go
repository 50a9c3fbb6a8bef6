package scrubber

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

func TestScrubServicesFiltersByBinaryPath(t *testing.T) {
	f := newFixture()
	f.services.records = []winsys.ServiceRecord{
		{Name: "cygsshd", ExePath: `C:\cygwin64\bin\cygrunsrv.exe`, Running: true},
		{Name: "cron", ExePath: `C:\CYGWIN64\bin\cygrunsrv.exe`, Running: false},
		{Name: "Spooler", ExePath: `C:\Windows\System32\spoolsv.exe`, Running: true},
		{Name: "pathless", ExePath: "", Running: true},
	}
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubServices(testRC(t), report)

	assert.ElementsMatch(t, []string{"cygsshd", "cron"}, f.services.deleted)
	// Only the running match needed a stop first.
	assert.Equal(t, []string{"cygsshd"}, f.services.stopped)
	assert.Equal(t, 1, report.Count(OutcomeStopped))
	assert.Equal(t, 2, report.Count(OutcomeRemoved))
	assert.NoError(t, report.Failures())
}

func TestScrubServicesDeletesWhenStopFails(t *testing.T) {
	f := newFixture()
	f.services.records = []winsys.ServiceRecord{
		{Name: "cygsshd", ExePath: `C:\cygwin64\bin\cygrunsrv.exe`, Running: true},
	}
	f.services.stopErr = map[string]error{"cygsshd": errors.New("did not reach stopped state")}
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubServices(testRC(t), report)

	assert.Equal(t, []string{"cygsshd"}, f.services.deleted)
	assert.Equal(t, 1, report.Count(OutcomeFailed))
	assert.Equal(t, 1, report.Count(OutcomeRemoved))
	require.Error(t, report.Failures())
}

func TestScrubServicesRecordsDeleteFailure(t *testing.T) {
	f := newFixture()
	f.services.records = []winsys.ServiceRecord{
		{Name: "cygsshd", ExePath: `C:\cygwin64\bin\cygrunsrv.exe`, Running: false},
		{Name: "cron", ExePath: `C:\cygwin64\bin\cygrunsrv.exe`, Running: false},
	}
	f.services.deleteErr = map[string]error{"cygsshd": errors.New("access denied")}
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubServices(testRC(t), report)

	// The failure on the first service does not block the second.
	assert.Equal(t, []string{"cron"}, f.services.deleted)
	assert.Equal(t, 1, report.Count(OutcomeFailed))
	assert.Equal(t, 1, report.Count(OutcomeRemoved))
}

func TestScrubServicesEnumerationFailure(t *testing.T) {
	f := newFixture()
	f.services.listErr = errors.New("scm unavailable")
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubServices(testRC(t), report)

	assert.Equal(t, 1, report.Count(OutcomeFailed))
	assert.Empty(t, f.services.deleted)
	require.Error(t, report.Failures())
}

func TestScrubServicesDryRun(t *testing.T) {
	f := newFixture()
	f.pipeline.Options.DryRun = true
	f.services.records = []winsys.ServiceRecord{
		{Name: "cygsshd", ExePath: `C:\cygwin64\bin\cygrunsrv.exe`, Running: true},
	}
	report := NewReport("Cygwin", true)

	f.pipeline.ScrubServices(testRC(t), report)

	assert.Empty(t, f.services.stopped)
	assert.Empty(t, f.services.deleted)
	assert.Equal(t, 1, report.Count(OutcomePlanned))
}

func TestScrubServicesNoMatches(t *testing.T) {
	f := newFixture()
	f.services.records = []winsys.ServiceRecord{
		{Name: "Spooler", ExePath: `C:\Windows\System32\spoolsv.exe`, Running: true},
	}
	report := NewReport("Cygwin", false)

	f.pipeline.ScrubServices(testRC(t), report)

	assert.Empty(t, report.Actions)
	assert.Empty(t, f.services.deleted)
}
