// Package winsys wraps the Windows subsystems cygscrub mutates: the
// service control manager, the process table, the registry, the
// persistent environment store, and the filesystem. Each subsystem is
// a narrow interface so removal logic can run against fakes in tests.
//
// Real implementations live behind a windows build tag; the stubs
// compiled elsewhere return ErrUnsupported from every call.
package winsys

import (
	"context"
	"io/fs"

	cerr "github.com/cockroachdb/errors"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
)

// ErrUnsupported is returned by stub implementations on platforms
// where the underlying subsystem does not exist.
var ErrUnsupported = cerr.New("operation requires Windows")

// Scope selects between the machine-wide and per-user views of a
// persistent store (environment block, registry hive).
type Scope string

const (
	ScopeMachine Scope = "machine"
	ScopeUser    Scope = "user"
)

// ServiceRecord is one entry from the service control manager.
type ServiceRecord struct {
	Name        string
	DisplayName string
	ExePath     string
	Running     bool
}

// ProcessRecord is one entry from the process table. ExePath is empty
// when the executable path could not be resolved (access denied,
// kernel threads).
type ProcessRecord struct {
	PID     int32
	Name    string
	ExePath string
}

// ServiceManager enumerates, stops, and deletes registered services.
type ServiceManager interface {
	// List returns every registered service with its binary path and
	// current run state.
	List(ctx context.Context) ([]ServiceRecord, error)

	// Stop requests a stop and waits briefly for the service to reach
	// the stopped state. A service that is already stopped is not an
	// error.
	Stop(ctx context.Context, name string) error

	// Delete removes the service registration. The service need not be
	// stopped first.
	Delete(ctx context.Context, name string) error
}

// ProcessManager enumerates and force-terminates processes.
type ProcessManager interface {
	List(ctx context.Context) ([]ProcessRecord, error)

	// Terminate force-kills the process. Terminating a process that
	// has already exited returns nil.
	Terminate(ctx context.Context, pid int32) error
}

// RegistryStore reads and deletes registry keys addressed by
// policy.Key (hive + path).
type RegistryStore interface {
	// KeyExists reports whether the key is present.
	KeyExists(key policy.Key) (bool, error)

	// ReadString reads a named string value under key. ok is false,
	// with a nil error, when the key or the value is absent.
	ReadString(key policy.Key, valueName string) (value string, ok bool, err error)

	// DeleteTree deletes the key and everything beneath it. Deleting
	// an absent key returns nil.
	DeleteTree(key policy.Key) error
}

// EnvStore reads and writes persistent environment variables per
// scope. Writes that change state broadcast the environment change to
// running applications.
type EnvStore interface {
	// Get returns the raw, unexpanded value. ok is false, with a nil
	// error, when the variable is absent in that scope.
	Get(scope Scope, name string) (value string, ok bool, err error)

	// Set writes value, preserving the existing registry value type
	// when the variable already exists.
	Set(scope Scope, name, value string) error

	// Unset deletes the variable. Unsetting an absent variable
	// returns nil.
	Unset(scope Scope, name string) error
}

// Filesystem covers the handful of filesystem operations the removal
// logic performs.
type Filesystem interface {
	Stat(path string) (fs.FileInfo, error)
	RemoveAll(path string) error
	Remove(path string) error
	Glob(pattern string) ([]string, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}
