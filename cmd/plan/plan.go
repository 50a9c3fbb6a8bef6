// cmd/plan/plan.go

package plan

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/cygscrub/cmd/scrub"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

// PlanCmd previews a full scrub without touching anything. Elevation
// is not required; the preview only reads.
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a scrub would remove, without removing anything",
	Long: `Plan runs the full discovery pass (services, processes, install
locations, environment, registry keys, shortcuts) and reports every
trace a scrub would remove. Nothing is mutated and administrative
privileges are not needed.

Examples:
  cygscrub plan
  cygscrub plan --output json --report-file plan.json`,
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		settings, pipe, err := scrub.BuildPipeline(cmd)
		if err != nil {
			return err
		}

		pipe.Options.DryRun = true
		pipe.CheckElevation = nil

		report, err := pipe.Run(rc)
		if err != nil {
			return err
		}
		return scrub.RenderReport(rc, settings, report)
	}),
}

func init() {
	PlanCmd.Flags().String("output", "text", "Report format: text, json, or yaml")
	PlanCmd.Flags().String("report-file", "", "Also write the run report to this path as JSON")
	PlanCmd.Flags().StringSlice("skip", nil,
		"Scrubbers to leave out (services, processes, directories, environment, registry, shortcuts)")
	PlanCmd.Flags().StringSlice("extra-install-roots", nil,
		"Additional install roots to check")
	PlanCmd.Flags().StringSlice("extra-processes", nil,
		"Additional process names to look for")
}
