package scrubber

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

// Locations is the outcome of install-location discovery: install
// roots confirmed present on disk, cache directories as recorded in
// setup metadata (existence re-checked by the directory scrubber),
// and the setup version string when one was found and parseable.
type Locations struct {
	InstallRoots []string
	CacheDirs    []string
	SetupVersion string
}

// DiscoverLocations reads the product's setup registry keys for the
// recorded install root and download cache, then adds the
// conventional default install paths that exist on disk. Both sets
// come back deduplicated (Windows paths compare case-insensitively).
// Registry read failures skip that location and keep going.
func (p *Pipeline) DiscoverLocations(rc *scrub_io.RuntimeContext) Locations {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS - setup metadata first, conventional defaults after
	var loc Locations
	seenRoots := make(map[string]bool)
	seenCaches := make(map[string]bool)

	for _, key := range p.Product.SetupKeys {
		rootdir, ok, err := p.Registry.ReadString(key, p.Product.RootdirValue)
		switch {
		case err != nil:
			logger.Warn("Setup key read failed, skipping location",
				zap.String("key", key.String()),
				zap.String("value", p.Product.RootdirValue),
				zap.Error(err))
		case ok:
			rootdir = strings.TrimSpace(rootdir)
			if rootdir != "" && p.pathExists(rootdir) && !seenRoots[strings.ToLower(rootdir)] {
				seenRoots[strings.ToLower(rootdir)] = true
				loc.InstallRoots = append(loc.InstallRoots, rootdir)
				logger.Info("Install root recorded in setup metadata",
					zap.String("path", rootdir),
					zap.String("key", key.String()))
			}
		}

		cache, ok, err := p.Registry.ReadString(key, p.Product.CacheValue)
		switch {
		case err != nil:
			logger.Warn("Setup key read failed, skipping cache value",
				zap.String("key", key.String()),
				zap.String("value", p.Product.CacheValue),
				zap.Error(err))
		case ok:
			// Cache paths are collected even when absent on disk; the
			// directory scrubber re-checks existence itself.
			cache = strings.TrimSpace(cache)
			if cache != "" && !seenCaches[strings.ToLower(cache)] {
				seenCaches[strings.ToLower(cache)] = true
				loc.CacheDirs = append(loc.CacheDirs, cache)
				logger.Info("Download cache recorded in setup metadata",
					zap.String("path", cache),
					zap.String("key", key.String()))
			}
		}

		if loc.SetupVersion == "" {
			if raw, ok, err := p.Registry.ReadString(key, p.Product.VersionValue); err == nil && ok {
				raw = strings.TrimSpace(raw)
				if _, perr := goversion.NewVersion(raw); perr == nil {
					loc.SetupVersion = raw
				} else {
					logger.Debug("Setup version value not parseable",
						zap.String("raw", raw), zap.Error(perr))
				}
			}
		}
	}

	for _, def := range p.Product.DefaultInstallRoots {
		if p.pathExists(def) && !seenRoots[strings.ToLower(def)] {
			seenRoots[strings.ToLower(def)] = true
			loc.InstallRoots = append(loc.InstallRoots, def)
			logger.Info("Conventional install root present", zap.String("path", def))
		}
	}

	// EVALUATE
	logger.Info("Location discovery complete",
		zap.Strings("install_roots", loc.InstallRoots),
		zap.Strings("cache_dirs", loc.CacheDirs),
		zap.String("setup_version", loc.SetupVersion))
	return loc
}

func (p *Pipeline) pathExists(path string) bool {
	_, err := p.FS.Stat(path)
	return err == nil
}
