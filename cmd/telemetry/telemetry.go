// cmd/telemetry/telemetry.go

package telemetry

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/telemetry"
)

// TelemetryCmd toggles local usage telemetry.
var TelemetryCmd = &cobra.Command{
	Use:   "telemetry [on|off|status]",
	Short: "Manage local telemetry collection",
	Long: `Manage local telemetry collection for cygscrub runs.

Spans are stored locally in JSONL format. No data is sent to external
servers.

Commands:
  on     - Enable telemetry collection
  off    - Disable telemetry collection
  status - Show telemetry status`,
	Args: cobra.ExactArgs(1),
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		log := otelzap.Ctx(rc.Ctx)

		switch args[0] {
		case "on":
			if err := telemetry.Enable(); err != nil {
				return err
			}
			log.Info("Telemetry enabled; takes effect on the next run")
			telemetry.ShowStatus(rc.Ctx)
		case "off":
			if err := telemetry.Disable(); err != nil {
				return err
			}
			log.Info("Telemetry disabled")
		case "status":
			telemetry.ShowStatus(rc.Ctx)
		default:
			return fmt.Errorf("usage: telemetry [on|off|status]")
		}
		return nil
	}),
}
