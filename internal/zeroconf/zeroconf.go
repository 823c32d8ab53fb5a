// Package zeroconf advertises the storefront as an mDNS/DNS-SD service so
// shoppers on the farm network can find it without knowing its address.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/grandcat/zeroconf"
)

const serviceType = "_http._tcp"

// Service manages mDNS service registration.
type Service struct {
	name    string // instance name, e.g. "Greenfield Poultry Farm"
	port    int
	version string
}

// New creates a new zeroconf Service that will advertise on the given port.
func New(name string, port int, version string) *Service {
	return &Service{name: name, port: port, version: version}
}

// TXT returns the TXT records published with the service.
func (s *Service) TXT() []string {
	return []string{"version=" + s.version, "path=/"}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at which
// point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	txt := s.TXT()
	server, err := zeroconf.Register(
		s.name,      // instance name
		serviceType, // service type
		"local.",    // domain
		s.port,      // port
		txt,         // TXT records
		nil,         // ifaces, nil means all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	slog.Info("zeroconf: registered mDNS service", "name", s.name, "port", s.port, "txt", txt)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}

// PortFromAddr extracts the numeric port from a listen address like ":8080".
func PortFromAddr(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("zeroconf: bad listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("zeroconf: listen address %q has no numeric port", addr)
	}
	return port, nil
}
