package scrubber

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

// ScrubDirectories discovers install roots and cache directories and
// feeds each through RemoveDirectory.
func (p *Pipeline) ScrubDirectories(rc *scrub_io.RuntimeContext, report *Report) {
	logger := otelzap.Ctx(rc.Ctx)

	loc := p.DiscoverLocations(rc)
	if loc.SetupVersion != "" {
		report.SetupVersion = loc.SetupVersion
	}

	logger.Info("Scrubbing directories",
		zap.Int("install_roots", len(loc.InstallRoots)),
		zap.Int("cache_dirs", len(loc.CacheDirs)))

	for _, root := range loc.InstallRoots {
		p.RemoveDirectory(rc, report, root)
	}
	for _, cache := range loc.CacheDirs {
		p.RemoveDirectory(rc, report, cache)
	}
}

// RemoveDirectory deletes one directory tree after three safety
// checks, applied in order: the path exists, it is not a drive root,
// and it carries the product signature. Each check excludes on its
// own. Survivors get a best-effort ownership pass and then a forced
// recursive delete; nothing here stops the run, every outcome lands
// on the report.
func (p *Pipeline) RemoveDirectory(rc *scrub_io.RuntimeContext, report *Report, path string) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	if _, err := p.FS.Stat(path); err != nil {
		logger.Info("Path absent, nothing to delete", zap.String("path", path))
		report.Skipped(ScrubberDirectories, path, "not present")
		return
	}
	if winsys.IsDriveRoot(path) {
		logger.Warn("Refusing to delete a drive root", zap.String("path", path))
		report.Skipped(ScrubberDirectories, path, "drive root")
		return
	}
	if !p.Product.MatchesSignature(path) {
		logger.Warn("Path does not carry the product signature, refusing to delete",
			zap.String("path", path),
			zap.String("signature", p.Product.Signature))
		report.Skipped(ScrubberDirectories, path, "signature mismatch")
		return
	}

	if p.Options.DryRun {
		logger.Info("Would delete directory", zap.String("path", path))
		report.Planned(ScrubberDirectories, "delete", path)
		return
	}

	// INTERVENE - take ownership best effort, then force delete.
	// Ownership forcing mitigates permission errors; its failure
	// never cancels the deletion attempt.
	p.forceOwnership(rc, path)

	if err := p.FS.RemoveAll(path); err != nil {
		logger.Warn("Directory deletion failed; locked files usually clear after a reboot",
			zap.String("path", path), zap.Error(err))
		report.Failed(ScrubberDirectories, "delete", path, err)
		return
	}

	// EVALUATE
	logger.Info("Directory deleted", zap.String("path", path))
	report.Completed(ScrubberDirectories, "delete", path, OutcomeRemoved)
}

// forceOwnership reassigns the tree to the administrators group and
// grants it full control so stale ACLs do not block deletion.
func (p *Pipeline) forceOwnership(rc *scrub_io.RuntimeContext, path string) {
	logger := otelzap.Ctx(rc.Ctx)

	if out, err := p.RunCommand(rc.Ctx, execute.Options{
		Command: "takeown",
		Args:    []string{"/F", path, "/R", "/A", "/D", "Y"},
		Capture: true,
	}); err != nil {
		logger.Warn("takeown failed, attempting deletion anyway",
			zap.String("path", path),
			zap.String("output", out),
			zap.Error(err))
	}

	if out, err := p.RunCommand(rc.Ctx, execute.Options{
		Command: "icacls",
		Args:    []string{path, "/grant", "Administrators:F", "/T", "/C", "/Q"},
		Capture: true,
	}); err != nil {
		logger.Warn("icacls failed, attempting deletion anyway",
			zap.String("path", path),
			zap.String("output", out),
			zap.Error(err))
	}
}
