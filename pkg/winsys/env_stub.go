//go:build !windows

package winsys

// RegistryEnvStore is compiled on non-Windows platforms only so the
// package builds everywhere; every method returns ErrUnsupported.
type RegistryEnvStore struct{}

func NewEnvStore() *RegistryEnvStore { return &RegistryEnvStore{} }

func (RegistryEnvStore) Get(Scope, string) (string, bool, error) {
	return "", false, ErrUnsupported
}

func (RegistryEnvStore) Set(Scope, string, string) error { return ErrUnsupported }

func (RegistryEnvStore) Unset(Scope, string) error { return ErrUnsupported }
