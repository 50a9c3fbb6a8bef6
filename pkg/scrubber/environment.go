package scrubber

import (
	"fmt"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

const (
	pathVariable  = "PATH"
	pathSeparator = ";"
)

// ScrubEnvironment cleans the persistent environment in both scopes:
// PATH loses every segment carrying the product signature, and the
// product's own variable is unset.
func (p *Pipeline) ScrubEnvironment(rc *scrub_io.RuntimeContext, report *Report) {
	for _, scope := range []winsys.Scope{winsys.ScopeMachine, winsys.ScopeUser} {
		p.scrubPathVariable(rc, report, scope)
		p.unsetProductVariable(rc, report, scope)
	}
}

// scrubPathVariable rewrites one scope's PATH without product
// segments. The write only happens when the rewrite changed
// something, so a clean PATH never triggers an environment-change
// broadcast.
func (p *Pipeline) scrubPathVariable(rc *scrub_io.RuntimeContext, report *Report, scope winsys.Scope) {
	logger := otelzap.Ctx(rc.Ctx)
	resource := fmt.Sprintf("%s (%s)", pathVariable, scope)

	// ASSESS
	value, ok, err := p.Env.Get(scope, pathVariable)
	if err != nil {
		logger.Warn("PATH read failed", zap.String("scope", string(scope)), zap.Error(err))
		report.Failed(ScrubberEnvironment, "read", resource, err)
		return
	}
	if !ok || strings.TrimSpace(value) == "" {
		logger.Info("PATH absent or blank in scope", zap.String("scope", string(scope)))
		return
	}

	cleaned := p.stripSignatureSegments(value)
	if cleaned == value {
		logger.Info("PATH carries no product segments", zap.String("scope", string(scope)))
		return
	}

	if p.Options.DryRun {
		report.Planned(ScrubberEnvironment, "rewrite", resource)
		return
	}

	// INTERVENE
	if err := p.Env.Set(scope, pathVariable, cleaned); err != nil {
		logger.Warn("PATH write failed", zap.String("scope", string(scope)), zap.Error(err))
		report.Failed(ScrubberEnvironment, "rewrite", resource, err)
		return
	}

	// EVALUATE
	logger.Info("PATH rewritten without product segments",
		zap.String("scope", string(scope)))
	report.Completed(ScrubberEnvironment, "rewrite", resource, OutcomeRemoved)
}

// stripSignatureSegments drops empty segments and segments carrying
// the product signature; kept segments are untouched byte for byte.
func (p *Pipeline) stripSignatureSegments(value string) string {
	segments := strings.Split(value, pathSeparator)
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || p.Product.MatchesSignature(seg) {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, pathSeparator)
}

func (p *Pipeline) unsetProductVariable(rc *scrub_io.RuntimeContext, report *Report, scope winsys.Scope) {
	logger := otelzap.Ctx(rc.Ctx)
	resource := fmt.Sprintf("%s (%s)", p.Product.EnvVar, scope)

	_, ok, err := p.Env.Get(scope, p.Product.EnvVar)
	if err != nil {
		logger.Warn("Product variable read failed",
			zap.String("variable", p.Product.EnvVar),
			zap.String("scope", string(scope)),
			zap.Error(err))
		report.Failed(ScrubberEnvironment, "read", resource, err)
		return
	}
	if !ok {
		return
	}

	if p.Options.DryRun {
		report.Planned(ScrubberEnvironment, "unset", resource)
		return
	}

	if err := p.Env.Unset(scope, p.Product.EnvVar); err != nil {
		logger.Warn("Product variable unset failed",
			zap.String("variable", p.Product.EnvVar),
			zap.String("scope", string(scope)),
			zap.Error(err))
		report.Failed(ScrubberEnvironment, "unset", resource, err)
		return
	}

	logger.Info("Product variable removed",
		zap.String("variable", p.Product.EnvVar),
		zap.String("scope", string(scope)))
	report.Completed(ScrubberEnvironment, "unset", resource, OutcomeRemoved)
}
