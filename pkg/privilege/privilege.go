// pkg/privilege/privilege.go

package privilege

import (
	"os/user"
	"time"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_err"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Check captures the result of one elevation probe.
type Check struct {
	Username  string
	Elevated  bool
	Timestamp time.Time
}

// CheckElevation checks whether the current process runs with
// administrative rights, following Assess → Intervene → Evaluate.
func CheckElevation(rc *scrub_io.RuntimeContext) (*Check, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// ASSESS
	logger.Debug("Assessing elevation check request")

	check := &Check{
		Timestamp: time.Now(),
	}

	// INTERVENE
	currentUser, err := user.Current()
	if err != nil {
		return check, cerr.Wrap(err, "failed to get current user")
	}
	check.Username = currentUser.Username
	check.Elevated = isElevated()

	// EVALUATE
	logger.Debug("Elevation check completed",
		zap.String("username", check.Username),
		zap.Bool("elevated", check.Elevated))

	return check, nil
}

// RequireElevation returns an error unless the process is elevated.
// The error is a system error: callers abort before any mutation and
// the process exits non-zero.
func RequireElevation(rc *scrub_io.RuntimeContext) error {
	check, err := CheckElevation(rc)
	if err != nil {
		return err
	}
	if !check.Elevated {
		otelzap.Ctx(rc.Ctx).Error("Administrative privileges required",
			zap.String("username", check.Username))
		return cerr.Wrap(scrub_err.ErrNotElevated,
			"rerun from an elevated session (Run as administrator)")
	}
	return nil
}
