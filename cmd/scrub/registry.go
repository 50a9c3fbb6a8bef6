// cmd/scrub/registry.go

package scrub

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// RegistryCmd deletes Cygwin registry keys only.
var RegistryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Delete Cygwin registry keys",
	Long: `Deletes the fixed set of Cygwin registry keys (Software\Cygwin and
the legacy Cygnus Solutions vendor key, per hive and per view).
Nothing outside that list is ever touched.`,
	RunE: scrub_cli.Wrap(runResource(scrubber.ScrubberRegistry)),
}

func init() {
	RegisterScrubFlags(RegistryCmd)
	ScrubCmd.AddCommand(RegistryCmd)
}
