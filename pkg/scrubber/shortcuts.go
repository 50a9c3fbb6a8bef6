package scrubber

import (
	"os"
	"path/filepath"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

// ScrubShortcuts removes product shortcut files and start-menu
// folders from the known UI locations. A missing location is skipped
// wholesale.
func (p *Pipeline) ScrubShortcuts(rc *scrub_io.RuntimeContext, report *Report) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	logger.Info("Scrubbing shortcuts",
		zap.Strings("locations", p.ShortcutDirs),
		zap.Strings("globs", p.Product.ShortcutGlobs))

	for _, dir := range p.ShortcutDirs {
		if _, err := p.FS.Stat(dir); err != nil {
			logger.Debug("Shortcut location absent", zap.String("dir", dir))
			continue
		}

		// INTERVENE - shortcut files by glob, then product folders
		for _, glob := range p.Product.ShortcutGlobs {
			pattern := filepath.Join(dir, glob)
			matches, err := p.FS.Glob(pattern)
			if err != nil {
				logger.Warn("Shortcut glob failed",
					zap.String("pattern", pattern), zap.Error(err))
				report.Failed(ScrubberShortcuts, "glob", pattern, err)
				continue
			}
			for _, match := range matches {
				p.removeShortcutFile(rc, report, match)
			}
		}

		p.removeProductFolders(rc, report, dir)
	}
}

func (p *Pipeline) removeShortcutFile(rc *scrub_io.RuntimeContext, report *Report, path string) {
	logger := otelzap.Ctx(rc.Ctx)

	if p.Options.DryRun {
		report.Planned(ScrubberShortcuts, "delete", path)
		return
	}

	if err := p.FS.Remove(path); err != nil {
		logger.Warn("Shortcut deletion failed", zap.String("path", path), zap.Error(err))
		report.Failed(ScrubberShortcuts, "delete", path, err)
		return
	}
	logger.Info("Shortcut deleted", zap.String("path", path))
	report.Completed(ScrubberShortcuts, "delete", path, OutcomeRemoved)
}

// removeProductFolders deletes immediate subdirectories whose name
// starts with the product folder prefix.
func (p *Pipeline) removeProductFolders(rc *scrub_io.RuntimeContext, report *Report, dir string) {
	logger := otelzap.Ctx(rc.Ctx)

	entries, err := p.FS.ReadDir(dir)
	if err != nil {
		logger.Warn("Listing shortcut location failed", zap.String("dir", dir), zap.Error(err))
		report.Failed(ScrubberShortcuts, "list", dir, err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || !p.Product.MatchesFolderPrefix(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		if p.Options.DryRun {
			report.Planned(ScrubberShortcuts, "delete", path)
			continue
		}

		if err := p.FS.RemoveAll(path); err != nil {
			logger.Warn("Start menu folder deletion failed",
				zap.String("path", path), zap.Error(err))
			report.Failed(ScrubberShortcuts, "delete", path, err)
			continue
		}
		logger.Info("Start menu folder deleted", zap.String("path", path))
		report.Completed(ScrubberShortcuts, "delete", path, OutcomeRemoved)
	}
}

// defaultShortcutDirs resolves the four UI locations shortcuts land
// in: both desktops and both start-menu Programs folders. Locations
// whose environment variable is unset are dropped.
func defaultShortcutDirs() []string {
	var dirs []string
	if public := os.Getenv("PUBLIC"); public != "" {
		dirs = append(dirs, filepath.Join(public, "Desktop"))
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		dirs = append(dirs, filepath.Join(profile, "Desktop"))
	}
	if programData := os.Getenv("ProgramData"); programData != "" {
		dirs = append(dirs, filepath.Join(programData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	return dirs
}
