// cmd/scrub/processes.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// ProcessesCmd force-terminates Cygwin processes only.
var ProcessesCmd = &cobra.Command{
	Use:   "processes",
	Short: "Force-terminate running Cygwin processes",
	Long: `Kills processes by known Cygwin executable name (bash, mintty,
ssh-agent, cygrunsrv and friends) and then by executable path, so
anything launched out of the install tree goes too. Processes hold
locks on the install tree; run this before deleting directories.`,
	RunE: scrub_cli.Wrap(runResource(scrubber.ScrubberProcesses)),
}

func init() {
	RegisterScrubFlags(ProcessesCmd)
	ScrubCmd.AddCommand(ProcessesCmd)
}
