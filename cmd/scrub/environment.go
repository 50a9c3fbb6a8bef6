// cmd/scrub/environment.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// EnvironmentCmd cleans the persistent environment only.
var EnvironmentCmd = &cobra.Command{
	Use:   "environment",
	Short: "Remove Cygwin entries from PATH and unset CYGWIN",
	Long: `Rewrites the persistent PATH in both the machine and user scopes
without Cygwin segments and unsets the CYGWIN variable. PATH entries
that do not mention Cygwin come through byte for byte, and a PATH
with nothing to remove is never rewritten.`,
	RunE: scrub_cli.Wrap(runResource(scrubber.ScrubberEnvironment)),
}

func init() {
	RegisterScrubFlags(EnvironmentCmd)
	ScrubCmd.AddCommand(EnvironmentCmd)
}
