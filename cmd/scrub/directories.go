// cmd/scrub/directories.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// DirectoriesCmd removes the install tree and download cache only.
var DirectoriesCmd = &cobra.Command{
	Use:   "directories",
	Short: "Delete the Cygwin install tree and download cache",
	Long: `Discovers install locations from the setup registry metadata and
the conventional paths (C:\cygwin, C:\cygwin64), then force-deletes
them after taking ownership.

Three checks guard every deletion: the path must exist, must not be a
drive root, and must carry "cygwin" somewhere in its name. A path
failing any check is reported and left alone.`,
	RunE: scrub_cli.Wrap(runResource(scrubber.ScrubberDirectories)),
}

func init() {
	RegisterScrubFlags(DirectoriesCmd)
	ScrubCmd.AddCommand(DirectoriesCmd)
}
