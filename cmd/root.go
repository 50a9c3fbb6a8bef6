/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/cygscrub/cmd/plan"
	"github.com/CodeMonkeyCybersecurity/cygscrub/cmd/scrub"
	telemetrycmd "github.com/CodeMonkeyCybersecurity/cygscrub/cmd/telemetry"
	versioncmd "github.com/CodeMonkeyCybersecurity/cygscrub/cmd/version"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_cli"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_err"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
)

var helpLogged bool // global guard to log help only once

// RootCmd is the base command for cygscrub.
var RootCmd = &cobra.Command{
	Use:   "cygscrub",
	Short: "Remove every trace of Cygwin from a Windows machine",
	Long: `cygscrub discovers and removes the traces a Cygwin install leaves
behind: services, processes, the install tree and download cache,
PATH and CYGWIN environment entries, registry keys, and shortcuts.

Run "cygscrub plan" first to see what would be removed.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			_ = os.Setenv("LOG_LEVEL", strings.ToUpper(lvl))
			logger.InitializeWithFallback()
		}
	},
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		fmt.Println("No subcommand provided. Try `cygscrub help`.")
		return cmd.Help()
	}),
}

// HelpCmd wraps help so that it can be invoked like a normal command.
var HelpCmd = &cobra.Command{
	Use:   "help",
	Short: "Help about any command",
	Long:  "Displays help for cygscrub or a specific subcommand.",
	RunE: scrub_cli.Wrap(func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return RootCmd.Help()
		}
		c, _, err := RootCmd.Find(args)
		if err != nil || c == nil {
			return fmt.Errorf("command not found: %s", strings.Join(args, " "))
		}
		return c.Help()
	}),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	RootCmd.SetHelpCommand(HelpCmd)

	log := logger.GetLogger()

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if !helpLogged {
			log.Info("Global help triggered via --help or -h", zap.String("command", cmd.Name()))
			helpLogged = true
			defer log.Info("Global help display complete", zap.String("command", cmd.Name()))
		}
		if err := cmd.Root().Usage(); err != nil {
			log.Warn("Failed to print usage", zap.Error(err))
		}
	})

	RootCmd.PersistentFlags().String("config", "", "Path to a cygscrub.yaml config file")
	RootCmd.PersistentFlags().String("log-level", "", "Log level (TRACE, DEBUG, INFO, WARN, ERROR)")

	for _, subCmd := range []*cobra.Command{
		scrub.ScrubCmd,
		plan.PlanCmd,
		telemetrycmd.TelemetryCmd,
		versioncmd.VersionCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute initializes and runs the root command.
func Execute() {
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to flush logs: %v\n", err)
		}
	}()

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		if scrub_err.IsExpectedUserError(err) {
			logger.L().Warn("CLI completed with user error", zap.Error(err))
			os.Exit(0)
		} else {
			logger.L().Error("CLI execution error", zap.Error(err))
			os.Exit(1)
		}
	}
}
