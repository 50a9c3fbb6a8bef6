// pkg/scrub_cli/wrap.go

package scrub_cli

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_err"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Wrap adapts a RuntimeContext-based handler to cobra's RunE,
// providing panic recovery, telemetry, and outcome logging.
func Wrap(fn func(rc *scrub_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := scrub_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)

		defer func() {
			if r := recover(); r != nil {
				err = cerr.AssertionFailedf("panic: %v", r)
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		err = fn(rc, cmd, args)
		if err != nil && !scrub_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
