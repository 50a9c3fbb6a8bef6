//go:build !windows

package winsys

import "context"

// SCMServiceManager is compiled on non-Windows platforms only so the
// package builds everywhere; every method returns ErrUnsupported.
type SCMServiceManager struct{}

func NewServiceManager() *SCMServiceManager { return &SCMServiceManager{} }

func (SCMServiceManager) List(context.Context) ([]ServiceRecord, error) {
	return nil, ErrUnsupported
}

func (SCMServiceManager) Stop(context.Context, string) error { return ErrUnsupported }

func (SCMServiceManager) Delete(context.Context, string) error { return ErrUnsupported }
