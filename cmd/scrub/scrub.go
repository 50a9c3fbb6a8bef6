// cmd/scrub/scrub.go

package scrub

import (
	"encoding/json"
	"fmt"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/config"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_err"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrubber"
)

// ScrubCmd runs the full removal pipeline: services, processes,
// directories, environment, registry keys, shortcuts, in that order.
var ScrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Remove every Cygwin trace from this machine",
	Long: `Scrub discovers and removes every trace Cygwin leaves on a Windows
host: registered services, running processes, the install tree and
download cache, PATH and CYGWIN environment entries, registry keys,
and shortcuts.

The run is strictly sequential and always completes; individual
failures (a locked file, a denied registry key) are recorded as
warnings and the run moves on. Rerun after a reboot to pick up
resources that were locked the first time.

Administrative privileges are required. Nothing is touched without
them.

Examples:
  cygscrub scrub                          # full removal, confirm first
  cygscrub scrub --dry-run                # show what would be removed
  cygscrub scrub --yes --output json      # unattended, machine-readable
  cygscrub scrub --skip registry,shortcuts
  cygscrub scrub --extra-install-roots 'D:\cygwin-portable'`,
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		settings, pipe, err := BuildPipeline(cmd)
		if err != nil {
			return err
		}
		if err := ConfirmMutation(rc, settings); err != nil {
			return err
		}

		report, err := pipe.Run(rc)
		if err != nil {
			return err
		}
		return RenderReport(rc, settings, report)
	}),
}

func init() {
	RegisterScrubFlags(ScrubCmd)
	ScrubCmd.Flags().StringSlice("skip", nil,
		"Scrubbers to leave out (services, processes, directories, environment, registry, shortcuts)")
}

// RegisterScrubFlags adds the flags shared by every scrubbing
// command.
func RegisterScrubFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Record what would be removed without touching anything")
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.Flags().String("output", "text", "Report format: text, json, or yaml")
	cmd.Flags().String("report-file", "", "Also write the run report to this path as JSON")
	cmd.Flags().StringSlice("extra-install-roots", nil,
		"Additional install roots to check (still subject to every safety check)")
	cmd.Flags().StringSlice("extra-processes", nil,
		"Additional process names to terminate")
}

// BuildPipeline resolves settings and assembles the production
// pipeline over the live system.
func BuildPipeline(cmd *cobra.Command) (*config.Settings, *scrubber.Pipeline, error) {
	settings, err := config.Load(cmd)
	if err != nil {
		return nil, nil, err
	}

	product := settings.Apply(policy.Cygwin())
	if err := product.Validate(); err != nil {
		return nil, nil, cerr.Wrap(err, "product table invalid after applying extras")
	}

	pipe := scrubber.New(product, scrubber.Options{
		DryRun: settings.DryRun,
		Skip:   settings.SkipSet(),
	})
	return settings, pipe, nil
}

// ConfirmMutation asks before a destructive run when it can. Dry
// runs, --yes, and non-interactive sessions all proceed without a
// prompt; the tool is built for unattended use.
func ConfirmMutation(rc *scrub_io.RuntimeContext, settings *config.Settings) error {
	if settings.DryRun || settings.Yes {
		return nil
	}
	if !interaction.IsTTY() {
		otelzap.Ctx(rc.Ctx).Info("No terminal for confirmation, proceeding")
		return nil
	}
	if !interaction.PromptYesNo("Remove all Cygwin traces from this machine? This cannot be undone", false) {
		return scrub_err.NewExpectedError(cerr.New("aborted by user"))
	}
	return nil
}

// RenderReport prints the run report in the requested format and
// writes the JSON artifact when a report file was asked for.
func RenderReport(rc *scrub_io.RuntimeContext, settings *config.Settings, report *scrubber.Report) error {
	switch settings.Output {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return cerr.Wrap(err, "failed to encode report")
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return cerr.Wrap(err, "failed to encode report")
		}
		fmt.Print(string(data))
	default:
		renderText(report)
	}

	if settings.ReportFile != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return cerr.Wrap(err, "failed to encode report")
		}
		if err := os.WriteFile(settings.ReportFile, data, 0o644); err != nil {
			return cerr.Wrapf(err, "failed to write report file %s", settings.ReportFile)
		}
		otelzap.Ctx(rc.Ctx).Info("Report written",
			zap.String("path", settings.ReportFile))
	}
	return nil
}

func renderText(report *scrubber.Report) {
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Printf("%s removal report %s%s\n", report.Product, report.RunID, mode)
	if report.SetupVersion != "" {
		fmt.Printf("Setup version on record: %s\n", report.SetupVersion)
	}

	for _, a := range report.Actions {
		detail := ""
		if a.Reason != "" {
			detail = " (" + a.Reason + ")"
		}
		if a.Error != "" {
			detail = " (" + a.Error + ")"
		}
		fmt.Printf("  %-12s %-9s %-48s %s%s\n", a.Scrubber, a.Verb, a.Resource, a.Outcome, detail)
	}

	fmt.Printf("Summary: %s\n", report.Summary())
	if report.Failures() != nil {
		fmt.Println("Some resources could not be removed; a reboot usually releases them. Rerun afterwards.")
	}
}

// runResource runs a single scrubber under the same confirmation and
// reporting path as a full run.
func runResource(name string) func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	return func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		settings, pipe, err := BuildPipeline(cmd)
		if err != nil {
			return err
		}
		if err := ConfirmMutation(rc, settings); err != nil {
			return err
		}

		report, err := pipe.RunOne(rc, name)
		if err != nil {
			return err
		}
		return RenderReport(rc, settings, report)
	}
}
