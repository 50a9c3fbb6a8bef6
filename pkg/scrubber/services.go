package scrubber

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

// ScrubServices finds services whose binary path carries the product
// signature, stops the running ones, and deletes their registrations.
// A failed stop does not block the delete.
func (p *Pipeline) ScrubServices(rc *scrub_io.RuntimeContext, report *Report) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS - enumerate everything registered with the SCM
	logger.Info("Scrubbing services", zap.String("signature", p.Product.Signature))

	services, err := p.Services.List(rc.Ctx)
	if err != nil {
		logger.Warn("Service enumeration failed", zap.Error(err))
		report.Failed(ScrubberServices, "enumerate", "service control manager", err)
		return
	}

	matched := 0
	for _, svc := range services {
		if !p.Product.MatchesSignature(svc.ExePath) {
			continue
		}
		matched++
		logger.Info("Service belongs to product",
			zap.String("service", svc.Name),
			zap.String("display_name", svc.DisplayName),
			zap.String("binary", svc.ExePath),
			zap.Bool("running", svc.Running))

		if p.Options.DryRun {
			report.Planned(ScrubberServices, "delete", svc.Name)
			continue
		}

		// INTERVENE - stop if running, then delete regardless of the
		// stop result
		if svc.Running {
			if err := p.Services.Stop(rc.Ctx, svc.Name); err != nil {
				logger.Warn("Service stop failed, deleting registration anyway",
					zap.String("service", svc.Name), zap.Error(err))
				report.Failed(ScrubberServices, "stop", svc.Name, err)
			} else {
				report.Completed(ScrubberServices, "stop", svc.Name, OutcomeStopped)
			}
		}

		if err := p.Services.Delete(rc.Ctx, svc.Name); err != nil {
			logger.Warn("Service delete failed",
				zap.String("service", svc.Name), zap.Error(err))
			report.Failed(ScrubberServices, "delete", svc.Name, err)
			continue
		}
		logger.Info("Service deleted", zap.String("service", svc.Name))
		report.Completed(ScrubberServices, "delete", svc.Name, OutcomeRemoved)
	}

	// EVALUATE
	if matched == 0 {
		logger.Info("No services matched the product signature")
	}
}
