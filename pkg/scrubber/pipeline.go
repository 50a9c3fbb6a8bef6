// Package scrubber removes every trace a product leaves on a Windows
// host. One scrubber owns one resource class (services, processes,
// directories, environment, registry keys, shortcuts); each discovers
// candidates, filters them through its safety checks, mutates the
// survivors, and keeps going past individual failures. The pipeline
// runs the scrubbers strictly in sequence and always to completion.
package scrubber

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/privilege"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

// Scrubber names, in pipeline order. Services and processes run
// before directory deletion so file locks are released first.
const (
	ScrubberServices    = "services"
	ScrubberProcesses   = "processes"
	ScrubberDirectories = "directories"
	ScrubberEnvironment = "environment"
	ScrubberRegistry    = "registry"
	ScrubberShortcuts   = "shortcuts"
)

// Names lists the scrubbers in the order Run executes them.
func Names() []string {
	return []string{
		ScrubberServices,
		ScrubberProcesses,
		ScrubberDirectories,
		ScrubberEnvironment,
		ScrubberRegistry,
		ScrubberShortcuts,
	}
}

// Options control a pipeline run.
type Options struct {
	// DryRun records what would be removed without mutating anything.
	DryRun bool
	// Skip names scrubbers Run leaves out.
	Skip map[string]bool
}

// Pipeline owns the removal sequence and the collaborators it reaches
// the system through. Every field is settable so tests can substitute
// fakes for the live subsystems.
type Pipeline struct {
	Product *policy.Product
	Options Options

	Services winsys.ServiceManager
	Procs    winsys.ProcessManager
	Registry winsys.RegistryStore
	Env      winsys.EnvStore
	FS       winsys.Filesystem

	// ShortcutDirs are the UI locations searched for product
	// shortcuts.
	ShortcutDirs []string

	// RunCommand shells out for ownership forcing (takeown, icacls).
	RunCommand func(ctx context.Context, opts execute.Options) (string, error)

	// CheckElevation gates every run; nil disables the gate for
	// read-only planning.
	CheckElevation func(rc *scrub_io.RuntimeContext) error
}

// New assembles a production pipeline over the live system.
func New(product *policy.Product, opts Options) *Pipeline {
	return &Pipeline{
		Product:        product,
		Options:        opts,
		Services:       winsys.NewServiceManager(),
		Procs:          winsys.NewProcessManager(),
		Registry:       winsys.NewRegistryStore(),
		Env:            winsys.NewEnvStore(),
		FS:             winsys.NewFilesystem(),
		ShortcutDirs:   defaultShortcutDirs(),
		RunCommand:     execute.Run,
		CheckElevation: privilege.RequireElevation,
	}
}

// Run executes every scrubber in order and returns the run report.
// The only fatal error is the elevation precondition; everything a
// scrubber hits is recorded on the report as a warning instead.
func (p *Pipeline) Run(rc *scrub_io.RuntimeContext) (*Report, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS - elevation is the one fatal precondition. Nothing is
	// enumerated, let alone mutated, without it.
	if p.CheckElevation != nil {
		if err := p.CheckElevation(rc); err != nil {
			return nil, err
		}
	}

	report := NewReport(p.Product.Name, p.Options.DryRun)
	logger.Info("Starting removal run",
		zap.String("run_id", report.RunID),
		zap.String("product", p.Product.Name),
		zap.Bool("dry_run", p.Options.DryRun))

	// INTERVENE - strictly sequential; a failing scrubber never
	// blocks the ones after it.
	for _, name := range Names() {
		if p.Options.Skip[name] {
			logger.Info("Scrubber skipped by request", zap.String("scrubber", name))
			continue
		}
		p.runScrubber(rc, report, name)
	}

	// EVALUATE
	report.Finish()
	logger.Info("Removal run complete",
		zap.String("run_id", report.RunID),
		zap.String("summary", report.Summary()),
		zap.Duration("duration", report.Duration))
	if fail := report.Failures(); fail != nil {
		logger.Warn("Run finished with warnings; locked resources usually clear after a reboot and rerun",
			zap.Int("failed", report.Count(OutcomeFailed)),
			zap.Error(fail))
	}
	return report, nil
}

// RunOne executes a single scrubber by name under the same elevation
// gate as a full run.
func (p *Pipeline) RunOne(rc *scrub_io.RuntimeContext, name string) (*Report, error) {
	if p.CheckElevation != nil {
		if err := p.CheckElevation(rc); err != nil {
			return nil, err
		}
	}

	if p.scrubberFor(name) == nil {
		return nil, cerr.Newf("unknown scrubber %q", name)
	}

	report := NewReport(p.Product.Name, p.Options.DryRun)
	p.runScrubber(rc, report, name)
	report.Finish()
	return report, nil
}

func (p *Pipeline) runScrubber(rc *scrub_io.RuntimeContext, report *Report, name string) {
	run := p.scrubberFor(name)
	if run == nil {
		return
	}

	stepCtx, span := telemetry.Start(rc.Ctx, "scrub_"+name)
	defer span.End()

	stepRC := *rc
	stepRC.Ctx = stepCtx
	run(&stepRC, report)
}

func (p *Pipeline) scrubberFor(name string) func(*scrub_io.RuntimeContext, *Report) {
	switch name {
	case ScrubberServices:
		return p.ScrubServices
	case ScrubberProcesses:
		return p.ScrubProcesses
	case ScrubberDirectories:
		return p.ScrubDirectories
	case ScrubberEnvironment:
		return p.ScrubEnvironment
	case ScrubberRegistry:
		return p.ScrubRegistry
	case ScrubberShortcuts:
		return p.ScrubShortcuts
	default:
		return nil
	}
}
