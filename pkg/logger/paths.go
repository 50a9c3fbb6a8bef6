/* pkg/logger/paths.go */

package logger

import (
	"os"
	"path/filepath"
	"runtime"
)

const logFileName = "cygscrub.log"

// PlatformLogPaths returns fallback log paths in order of priority.
// The tool targets Windows; the non-Windows entries exist so tests and
// cross-platform builds still have somewhere to write.
func PlatformLogPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(os.Getenv("ProgramData"), "cygscrub", "logs", logFileName),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "cygscrub", logFileName),
			".\\" + logFileName,
		}
	default:
		return []string{
			filepath.Join(os.TempDir(), "cygscrub", logFileName),
			"./" + logFileName,
		}
	}
}

// ResolveLogPath attempts to find the best writable log file path.
func ResolveLogPath() string {
	for _, path := range PlatformLogPaths() {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			continue
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err == nil {
			_ = file.Close()
			return path
		}
	}
	return ""
}
