package scrubber

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Outcome classifies what happened to one candidate resource.
type Outcome string

const (
	// OutcomeRemoved - the resource was deleted.
	OutcomeRemoved Outcome = "removed"
	// OutcomeStopped - a running service reached the stopped state.
	OutcomeStopped Outcome = "stopped"
	// OutcomeTerminated - a process was force-killed.
	OutcomeTerminated Outcome = "terminated"
	// OutcomeSkipped - a safety check excluded the candidate.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed - the mutation was attempted and did not succeed.
	OutcomeFailed Outcome = "failed"
	// OutcomePlanned - dry run; the mutation would have been attempted.
	OutcomePlanned Outcome = "planned"
)

// Action is one examined candidate and what became of it.
type Action struct {
	Scrubber string    `json:"scrubber" yaml:"scrubber"`
	Verb     string    `json:"verb,omitempty" yaml:"verb,omitempty"`
	Resource string    `json:"resource" yaml:"resource"`
	Outcome  Outcome   `json:"outcome" yaml:"outcome"`
	Reason   string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	Time     time.Time `json:"time" yaml:"time"`
}

// Report collects every Action of one run. Per-candidate failures are
// aggregated as warnings; they never fail the run itself.
type Report struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Product      string        `json:"product" yaml:"product"`
	Host         string        `json:"host" yaml:"host"`
	Start        time.Time     `json:"start" yaml:"start"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	DryRun       bool          `json:"dry_run" yaml:"dry_run"`
	SetupVersion string        `json:"setup_version,omitempty" yaml:"setup_version,omitempty"`
	Actions      []Action      `json:"actions" yaml:"actions"`

	failures *multierror.Error
}

// NewReport starts an empty report for one run.
func NewReport(product string, dryRun bool) *Report {
	host, _ := os.Hostname()
	return &Report{
		RunID:   uuid.New().String(),
		Product: product,
		Host:    host,
		Start:   time.Now(),
		DryRun:  dryRun,
	}
}

// Completed records a successful mutation.
func (r *Report) Completed(scrubber, verb, resource string, outcome Outcome) {
	r.record(Action{Scrubber: scrubber, Verb: verb, Resource: resource, Outcome: outcome})
}

// Skipped records a candidate excluded by a safety check or already
// absent.
func (r *Report) Skipped(scrubber, resource, reason string) {
	r.record(Action{Scrubber: scrubber, Resource: resource, Outcome: OutcomeSkipped, Reason: reason})
}

// Planned records a mutation withheld by dry run.
func (r *Report) Planned(scrubber, verb, resource string) {
	r.record(Action{Scrubber: scrubber, Verb: verb, Resource: resource, Outcome: OutcomePlanned})
}

// Failed records an attempted mutation that did not succeed and adds
// it to the warning aggregate.
func (r *Report) Failed(scrubber, verb, resource string, err error) {
	r.record(Action{Scrubber: scrubber, Verb: verb, Resource: resource, Outcome: OutcomeFailed, Error: err.Error()})
	r.failures = multierror.Append(r.failures, fmt.Errorf("%s: %s %s: %w", scrubber, verb, resource, err))
}

func (r *Report) record(a Action) {
	a.Time = time.Now()
	r.Actions = append(r.Actions, a)
}

// Finish stamps the total run duration.
func (r *Report) Finish() {
	r.Duration = time.Since(r.Start)
}

// Count returns how many actions ended with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, a := range r.Actions {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failures returns the aggregated per-candidate warnings, or nil when
// everything attempted succeeded.
func (r *Report) Failures() error {
	return r.failures.ErrorOrNil()
}

// Summary renders a one-line outcome tally.
func (r *Report) Summary() string {
	order := []Outcome{OutcomeRemoved, OutcomeStopped, OutcomeTerminated, OutcomePlanned, OutcomeSkipped, OutcomeFailed}
	parts := make([]string, 0, len(order))
	for _, o := range order {
		if n := r.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
