// pkg/version/version.go

package version

// Build information set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
