package scrubber

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

// ScrubRegistry deletes the product's registry keys. Only the fixed
// allow-list in the policy table is ever touched; nothing is
// discovered at run time. Absent keys are passed over without a
// report entry.
func (p *Pipeline) ScrubRegistry(rc *scrub_io.RuntimeContext, report *Report) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	logger.Info("Scrubbing registry keys", zap.Int("allow_list", len(p.Product.RemovalKeys)))

	for _, key := range p.Product.RemovalKeys {
		exists, err := p.Registry.KeyExists(key)
		if err != nil {
			logger.Warn("Registry key check failed",
				zap.String("key", key.String()), zap.Error(err))
			report.Failed(ScrubberRegistry, "check", key.String(), err)
			continue
		}
		if !exists {
			continue
		}

		if p.Options.DryRun {
			report.Planned(ScrubberRegistry, "delete", key.String())
			continue
		}

		// INTERVENE
		if err := p.Registry.DeleteTree(key); err != nil {
			logger.Warn("Registry key deletion failed",
				zap.String("key", key.String()), zap.Error(err))
			report.Failed(ScrubberRegistry, "delete", key.String(), err)
			continue
		}

		logger.Info("Registry key deleted", zap.String("key", key.String()))
		report.Completed(ScrubberRegistry, "delete", key.String(), OutcomeRemoved)
	}
}
