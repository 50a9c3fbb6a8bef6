//go:build windows

// pkg/privilege/elevation_windows.go

package privilege

import (
	"golang.org/x/sys/windows"
)

// isElevated reports whether the process token carries the elevated
// attribute. Membership in the Administrators group is not enough
// under UAC; the token itself must be elevated.
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
