package scrubber

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

// ScrubProcesses force-terminates product processes in two
// independent passes: first every process whose name is on the known
// list, then a fresh enumeration filtered by executable path. The
// second pass catches product binaries outside the known list; a
// process killed in pass one reappearing in pass two is a harmless
// repeat kill. The passes stay separate because the path filter
// cannot see processes whose executable path is unresolvable.
func (p *Pipeline) ScrubProcesses(rc *scrub_io.RuntimeContext, report *Report) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	logger.Info("Scrubbing processes",
		zap.Strings("known_names", p.Product.KnownProcesses),
		zap.String("signature", p.Product.Signature))

	// INTERVENE - pass one: exact known names
	procs, err := p.Procs.List(rc.Ctx)
	if err != nil {
		logger.Warn("Process enumeration failed", zap.Error(err))
		report.Failed(ScrubberProcesses, "enumerate", "process table", err)
		return
	}
	for _, proc := range procs {
		if !p.Product.MatchesProcessName(proc.Name) {
			continue
		}
		p.terminateProcess(rc, report, proc, "known name")
	}

	// Pass two: re-enumerate and filter by executable path, so
	// children spawned during pass one are covered too.
	procs, err = p.Procs.List(rc.Ctx)
	if err != nil {
		logger.Warn("Process re-enumeration failed", zap.Error(err))
		report.Failed(ScrubberProcesses, "enumerate", "process table", err)
		return
	}
	for _, proc := range procs {
		if proc.ExePath == "" || !p.Product.MatchesSignature(proc.ExePath) {
			continue
		}
		p.terminateProcess(rc, report, proc, "executable path")
	}
}

func (p *Pipeline) terminateProcess(rc *scrub_io.RuntimeContext, report *Report, proc winsys.ProcessRecord, matchedBy string) {
	logger := otelzap.Ctx(rc.Ctx)
	resource := fmt.Sprintf("%s (pid %d)", proc.Name, proc.PID)

	if p.Options.DryRun {
		report.Planned(ScrubberProcesses, "terminate", resource)
		return
	}

	logger.Info("Terminating process",
		zap.String("name", proc.Name),
		zap.Int32("pid", proc.PID),
		zap.String("path", proc.ExePath),
		zap.String("matched_by", matchedBy))

	if err := p.Procs.Terminate(rc.Ctx, proc.PID); err != nil {
		logger.Warn("Process termination failed",
			zap.String("name", proc.Name),
			zap.Int32("pid", proc.PID),
			zap.Error(err))
		report.Failed(ScrubberProcesses, "terminate", resource, err)
		return
	}
	report.Completed(ScrubberProcesses, "terminate", resource, OutcomeTerminated)
}
