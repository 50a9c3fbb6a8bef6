// cmd/version/version.go

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	pkgversion "github.com/CodeMonkeyCybersecurity/cygscrub/pkg/version"
)

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cygscrub build information",
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		fmt.Printf("cygscrub %s (commit %s, built %s)\n",
			pkgversion.Version, pkgversion.Commit, pkgversion.Date)
		return nil
	}),
}
