//go:build !windows

package winsys

import "github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"

// WindowsRegistry is compiled on non-Windows platforms only so the
// package builds everywhere; every method returns ErrUnsupported.
type WindowsRegistry struct{}

func NewRegistryStore() *WindowsRegistry { return &WindowsRegistry{} }

func (WindowsRegistry) KeyExists(policy.Key) (bool, error) { return false, ErrUnsupported }

func (WindowsRegistry) ReadString(policy.Key, string) (string, bool, error) {
	return "", false, ErrUnsupported
}

func (WindowsRegistry) DeleteTree(policy.Key) error { return ErrUnsupported }
