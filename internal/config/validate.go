package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every section and returns all problems joined together.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.Network.validate()...)
	errs = append(errs, c.Discovery.validate()...)
	errs = append(errs, c.Logging.validate()...)
	errs = append(errs, c.Server.validate()...)
	return errors.Join(errs...)
}

func (n NetworkConfig) validate() []error {
	var errs []error

	if n.ControlPort < 1 || n.ControlPort > 65535 {
		errs = append(errs, &ValidationError{"network.control_port", fmt.Sprintf("%d out of range", n.ControlPort)})
	}

	seen := make(map[int]bool)
	for _, p := range n.NotificationPorts {
		if p < 1 || p > 65535 {
			errs = append(errs, &ValidationError{"network.notification_ports", fmt.Sprintf("%d out of range", p)})
		}
		if seen[p] {
			errs = append(errs, &ValidationError{"network.notification_ports", fmt.Sprintf("%d listed twice", p)})
		}
		seen[p] = true
	}

	for _, g := range n.MulticastGroups {
		ip := net.ParseIP(g)
		if ip == nil || ip.To4() == nil || !ip.IsMulticast() {
			errs = append(errs, &ValidationError{"network.multicast_groups", fmt.Sprintf("%q is not an IPv4 multicast address", g)})
		}
	}

	return errs
}

func (d DiscoveryConfig) validate() []error {
	var errs []error

	switch d.Backend {
	case BackendMDNS, BackendZeroconf:
	default:
		errs = append(errs, &ValidationError{"discovery.backend", fmt.Sprintf("unknown backend %q (want %s or %s)", d.Backend, BackendMDNS, BackendZeroconf)})
	}

	if d.Enabled && !strings.HasPrefix(d.Service, "_") {
		errs = append(errs, &ValidationError{"discovery.service", fmt.Sprintf("%q is not a service type", d.Service)})
	}
	if d.Timeout < 0 {
		errs = append(errs, &ValidationError{"discovery.timeout", "must not be negative"})
	}

	return errs
}

func (l LoggingConfig) validate() []error {
	var errs []error

	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{"logging.level", fmt.Sprintf("unknown level %q", l.Level)})
	}
	switch l.Format {
	case "", "console", "json":
	default:
		errs = append(errs, &ValidationError{"logging.format", fmt.Sprintf("unknown format %q", l.Format)})
	}

	return errs
}

func (s ServerConfig) validate() []error {
	if s.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		return []error{&ValidationError{"server.listen", err.Error()}}
	}
	return nil
}
