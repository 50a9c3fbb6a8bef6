// pkg/logger/logger.go

package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger

// SetLogger replaces the package-level logger.
func SetLogger(l *zap.Logger) {
	log = l
}

// L returns the package-level logger, or nil before initialization.
func L() *zap.Logger {
	return log
}

// GetLogger returns the global logger, initializing a fallback if needed.
func GetLogger() *zap.Logger {
	l := L()
	if l == nil {
		fallback := NewFallbackLogger()
		zap.ReplaceGlobals(fallback)
		SetLogger(fallback)
		return fallback
	}
	return l
}

// Sync flushes any buffered log entries. Should be called before the
// application exits. Sync on a console sink fails on some platforms;
// that error is not worth surfacing.
func Sync() error {
	if log == nil {
		return nil
	}
	return log.Sync()
}
