// pkg/telemetry/management.go

package telemetry

import (
	"context"
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// FilePath returns where spans are written, preferring the system
// data directory and falling back to the user profile.
func FilePath() string {
	systemPath := filepath.Join(systemDataDir(), "telemetry.jsonl")
	if _, err := os.Stat(filepath.Dir(systemPath)); err == nil {
		return systemPath
	}
	return filepath.Join(userDataDir(), "telemetry", "telemetry.jsonl")
}

func markerPath() string {
	return filepath.Join(userDataDir(), "telemetry_on")
}

// Enable writes the opt-in marker. Takes effect on the next run.
func Enable() error {
	if err := os.MkdirAll(filepath.Dir(markerPath()), 0700); err != nil {
		return cerr.Wrap(err, "failed to create data directory")
	}
	if err := os.WriteFile(markerPath(), []byte("on\n"), 0600); err != nil {
		return cerr.Wrap(err, "failed to write telemetry marker")
	}
	return nil
}

// Disable removes the opt-in marker; a missing marker is fine.
func Disable() error {
	if err := os.Remove(markerPath()); err != nil && !os.IsNotExist(err) {
		return cerr.Wrap(err, "failed to remove telemetry marker")
	}
	return nil
}

// ShowStatus logs whether collection is on and where the spans live.
func ShowStatus(ctx context.Context) {
	logger := otelzap.Ctx(ctx)

	path := FilePath()
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	logger.Info("Telemetry status",
		zap.Bool("enabled", IsEnabled()),
		zap.String("file", path),
		zap.Int64("bytes", size),
		zap.String("install_id", AnonTelemetryID()),
		zap.String("privacy", "local JSONL only, nothing leaves the machine"))
}
