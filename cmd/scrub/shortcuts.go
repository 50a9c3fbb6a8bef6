// cmd/scrub/shortcuts.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// ShortcutsCmd removes Cygwin shortcuts and start menu folders only.
var ShortcutsCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "Remove Cygwin shortcuts and start menu folders",
	RunE:  scrub_cli.Wrap(runResource(scrubber.ScrubberShortcuts)),
}

func init() {
	RegisterScrubFlags(ShortcutsCmd)
	ScrubCmd.AddCommand(ShortcutsCmd)
}
