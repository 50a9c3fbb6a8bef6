//go:build windows

package winsys

import (
	"context"
	"time"

	cerr "github.com/cockroachdb/errors"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

const (
	stopPollInterval = 500 * time.Millisecond
	stopPollAttempts = 20
)

// SCMServiceManager is the production ServiceManager backed by the
// Windows service control manager.
type SCMServiceManager struct{}

// NewServiceManager returns a ServiceManager talking to the local SCM.
func NewServiceManager() *SCMServiceManager { return &SCMServiceManager{} }

func (SCMServiceManager) List(ctx context.Context) ([]ServiceRecord, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, cerr.Wrap(err, "connect to service control manager")
	}
	defer m.Disconnect()

	names, err := m.ListServices()
	if err != nil {
		return nil, cerr.Wrap(err, "list services")
	}

	records := make([]ServiceRecord, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		// Services can vanish or deny access between list and open;
		// skip those rather than failing the whole enumeration.
		s, err := m.OpenService(name)
		if err != nil {
			continue
		}

		rec := ServiceRecord{Name: name}
		if cfg, err := s.Config(); err == nil {
			rec.DisplayName = cfg.DisplayName
			rec.ExePath = cfg.BinaryPathName
		}
		if status, err := s.Query(); err == nil {
			rec.Running = status.State != svc.Stopped
		}
		s.Close()

		records = append(records, rec)
	}
	return records, nil
}

func (SCMServiceManager) Stop(ctx context.Context, name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return cerr.Wrap(err, "connect to service control manager")
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return cerr.Wrapf(err, "open service %s", name)
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return cerr.Wrapf(err, "query service %s", name)
	}
	if status.State == svc.Stopped {
		return nil
	}

	status, err = s.Control(svc.Stop)
	if err != nil {
		return cerr.Wrapf(err, "stop service %s", name)
	}

	// Bounded wait for SERVICE_STOPPED. The stop itself is never
	// reissued.
	for i := 0; status.State != svc.Stopped && i < stopPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stopPollInterval):
		}
		if status, err = s.Query(); err != nil {
			return cerr.Wrapf(err, "query service %s while stopping", name)
		}
	}
	if status.State != svc.Stopped {
		return cerr.Newf("service %s did not reach stopped state within %s",
			name, stopPollAttempts*stopPollInterval)
	}
	return nil
}

func (SCMServiceManager) Delete(_ context.Context, name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return cerr.Wrap(err, "connect to service control manager")
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return cerr.Wrapf(err, "open service %s", name)
	}
	defer s.Close()

	if err := s.Delete(); err != nil {
		return cerr.Wrapf(err, "delete service %s", name)
	}
	return nil
}
