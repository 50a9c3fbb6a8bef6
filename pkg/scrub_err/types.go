// pkg/scrub_err/types.go

package scrub_err

import "errors"

// ErrNotElevated is the precondition failure: the process lacks
// administrative rights, so no mutation may be attempted.
var ErrNotElevated = errors.New("administrative privileges required")

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}
