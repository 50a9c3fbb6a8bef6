//go:build windows

package winsys

import (
	"unsafe"

	cerr "github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	machineEnvPath = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	userEnvPath    = `Environment`
)

// RegistryEnvStore is the production EnvStore over the persistent
// environment registry keys.
type RegistryEnvStore struct{}

// NewEnvStore returns an EnvStore over the machine and user
// environment blocks.
func NewEnvStore() *RegistryEnvStore { return &RegistryEnvStore{} }

func envKey(scope Scope) (registry.Key, string, error) {
	switch scope {
	case ScopeMachine:
		return registry.LOCAL_MACHINE, machineEnvPath, nil
	case ScopeUser:
		return registry.CURRENT_USER, userEnvPath, nil
	default:
		return 0, "", cerr.Newf("unknown environment scope %q", scope)
	}
}

func (RegistryEnvStore) Get(scope Scope, name string) (string, bool, error) {
	root, path, err := envKey(scope)
	if err != nil {
		return "", false, err
	}

	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, cerr.Wrapf(err, "open %s environment key", scope)
	}
	defer k.Close()

	// Raw value; REG_EXPAND_SZ references stay unexpanded so kept
	// segments round-trip byte for byte.
	val, _, err := k.GetStringValue(name)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, cerr.Wrapf(err, "read %s (%s scope)", name, scope)
	}
	return val, true, nil
}

func (RegistryEnvStore) Set(scope Scope, name, value string) error {
	root, path, err := envKey(scope)
	if err != nil {
		return err
	}

	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return cerr.Wrapf(err, "open %s environment key", scope)
	}
	defer k.Close()

	// Preserve REG_EXPAND_SZ on variables that already carry it, PATH
	// in particular.
	valtype := uint32(registry.SZ)
	if _, existing, err := k.GetStringValue(name); err == nil {
		valtype = existing
	}

	if valtype == registry.EXPAND_SZ {
		err = k.SetExpandStringValue(name, value)
	} else {
		err = k.SetStringValue(name, value)
	}
	if err != nil {
		return cerr.Wrapf(err, "write %s (%s scope)", name, scope)
	}

	broadcastEnvironmentChange()
	return nil
}

func (RegistryEnvStore) Unset(scope Scope, name string) error {
	root, path, err := envKey(scope)
	if err != nil {
		return err
	}

	k, err := registry.OpenKey(root, path, registry.SET_VALUE)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return nil
		}
		return cerr.Wrapf(err, "open %s environment key", scope)
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return nil
		}
		return cerr.Wrapf(err, "delete %s (%s scope)", name, scope)
	}

	broadcastEnvironmentChange()
	return nil
}

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
)

const (
	hwndBroadcast   = 0xFFFF
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
)

// broadcastEnvironmentChange notifies running applications that the
// persistent environment changed. Best effort; hung windows are
// skipped after the timeout.
func broadcastEnvironmentChange() {
	env, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	_, _, _ = procSendMessageTimeout.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(smtoAbortIfHung),
		uintptr(5000),
		0,
	)
}
