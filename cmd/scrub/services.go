// cmd/scrub/services.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// ServicesCmd removes Cygwin service registrations only.
var ServicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Stop and delete Cygwin services",
	Long: `Finds Windows services whose binary path points into a Cygwin
install (cygrunsrv-registered sshd, cron, and the like), stops the
running ones, and deletes their registrations. A service that refuses
to stop is deleted anyway; the registration is gone after the next
reboot.`,
	RunE: scrub_cli.Wrap(runResource(scrubber.ScrubberServices)),
}

func init() {
	RegisterScrubFlags(ServicesCmd)
	ScrubCmd.AddCommand(ServicesCmd)
}
