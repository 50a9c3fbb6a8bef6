package winsys

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/process"
)

// GopsProcessManager is the production ProcessManager backed by
// gopsutil.
type GopsProcessManager struct{}

// NewProcessManager returns a ProcessManager over the live process
// table.
func NewProcessManager() *GopsProcessManager { return &GopsProcessManager{} }

func (GopsProcessManager) List(ctx context.Context) ([]ProcessRecord, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, cerr.Wrap(err, "enumerate processes")
	}

	records := make([]ProcessRecord, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited between enumeration and inspection.
			continue
		}
		// The executable path is unresolvable for protected and system
		// processes; an empty path is a valid record.
		exe, _ := p.ExeWithContext(ctx)

		records = append(records, ProcessRecord{PID: p.Pid, Name: name, ExePath: exe})
	}
	return records, nil
}

func (GopsProcessManager) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		// Already exited. Killing a dead process is a no-op, not a
		// failure.
		return nil
	}

	if err := p.KillWithContext(ctx); err != nil {
		if running, rerr := p.IsRunningWithContext(ctx); rerr == nil && !running {
			return nil
		}
		return cerr.Wrapf(err, "kill pid %d", pid)
	}
	return nil
}
