//go:build windows

package winsys

import (
	cerr "github.com/cockroachdb/errors"
	"golang.org/x/sys/windows/registry"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
)

// WindowsRegistry is the production RegistryStore.
type WindowsRegistry struct{}

// NewRegistryStore returns a RegistryStore over the live registry.
func NewRegistryStore() *WindowsRegistry { return &WindowsRegistry{} }

func hiveRoot(hive policy.Hive) (registry.Key, error) {
	switch hive {
	case policy.HiveLocalMachine:
		return registry.LOCAL_MACHINE, nil
	case policy.HiveCurrentUser:
		return registry.CURRENT_USER, nil
	default:
		return 0, cerr.Newf("unknown registry hive %q", hive)
	}
}

func (WindowsRegistry) KeyExists(key policy.Key) (bool, error) {
	root, err := hiveRoot(key.Hive)
	if err != nil {
		return false, err
	}

	k, err := registry.OpenKey(root, key.Path, registry.QUERY_VALUE)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, cerr.Wrapf(err, "open %s", key)
	}
	k.Close()
	return true, nil
}

func (WindowsRegistry) ReadString(key policy.Key, valueName string) (string, bool, error) {
	root, err := hiveRoot(key.Hive)
	if err != nil {
		return "", false, err
	}

	k, err := registry.OpenKey(root, key.Path, registry.QUERY_VALUE)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, cerr.Wrapf(err, "open %s", key)
	}
	defer k.Close()

	val, _, err := k.GetStringValue(valueName)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, cerr.Wrapf(err, `read %s\%s`, key, valueName)
	}
	return val, true, nil
}

func (WindowsRegistry) DeleteTree(key policy.Key) error {
	root, err := hiveRoot(key.Hive)
	if err != nil {
		return err
	}
	if err := deleteTree(root, key.Path); err != nil {
		return cerr.Wrapf(err, "delete %s", key)
	}
	return nil
}

// deleteTree removes path and every subkey beneath it, depth first.
// An absent path is not an error.
func deleteTree(root registry.Key, path string) error {
	k, err := registry.OpenKey(root, path, registry.READ)
	if err != nil {
		if cerr.Is(err, registry.ErrNotExist) {
			return nil
		}
		return err
	}

	subs, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if err := deleteTree(root, path+`\`+sub); err != nil {
			return err
		}
	}
	return registry.DeleteKey(root, path)
}
