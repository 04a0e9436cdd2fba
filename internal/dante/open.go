package dante

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/config"
	"github.com/muurk/netaudio/internal/discovery"
	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/transport"
)

// Open creates a client with real sockets as described by cfg: the control
// socket on the configured interface, one listener per notification port,
// and the configured discovery backend. Call Run to start it.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	ifi, localIP, err := transport.ResolveInterface(cfg.Network.Interface)
	if err != nil {
		return nil, err
	}

	control, err := transport.ListenControl(localIP)
	if err != nil {
		return nil, err
	}

	var opened []transport.Conn
	fail := func(err error) (*Client, error) {
		control.Close()
		for _, c := range opened {
			c.Close()
		}
		return nil, err
	}

	if cfg.Notifications.Enabled {
		groups, err := parseGroups(cfg.Network.MulticastGroups)
		if err != nil {
			return fail(err)
		}
		for _, port := range cfg.Network.NotificationPorts {
			conn, err := transport.ListenMulticast(ctx, port, groups, ifi)
			if err != nil {
				return fail(err)
			}
			opened = append(opened, conn)
		}
	}

	var d discovery.Discoverer
	if cfg.Discovery.Enabled {
		d, err = discovery.Open(ctx, cfg.Discovery, ifi)
		if err != nil {
			return fail(err)
		}
	}

	logging.Info("Sockets open",
		zap.String("interface", cfg.Network.Interface),
		zap.Stringer("control", control.LocalAddr()),
		zap.Int("listeners", len(opened)),
		zap.String("discovery", cfg.Discovery.Backend),
	)

	base := []Option{
		WithNotificationConns(opened...),
		WithControlPort(cfg.Network.ControlPort),
		WithDebug(cfg.Logging.Debug),
		WithDiscoveryTimeout(cfg.Discovery.Timeout),
	}
	if d != nil {
		base = append(base, WithDiscoverer(d))
	}
	return New(control, append(base, opts...)...), nil
}

func parseGroups(groups []string) ([]net.IP, error) {
	ips := make([]net.IP, 0, len(groups))
	for _, g := range groups {
		ip := net.ParseIP(g)
		if ip == nil || !ip.IsMulticast() {
			return nil, fmt.Errorf("invalid multicast group %q", g)
		}
		ips = append(ips, ip)
	}
	return ips, nil
}
