package discovery

import (
	"context"
	"net"

	"github.com/muurk/netaudio/internal/config"
	"github.com/muurk/netaudio/internal/transport"
)

// Open builds the discoverer selected by cfg on interface ifi (nil for
// all). The mdns backend binds its socket here; it is released when
// Discover returns, so the discoverer must be run.
func Open(ctx context.Context, cfg config.DiscoveryConfig, ifi *net.Interface) (Discoverer, error) {
	if cfg.Backend == config.BackendZeroconf {
		return NewZeroconf(cfg.Service, ifi), nil
	}

	conn, err := transport.ListenMulticast(ctx, MDNSGroupAddr.Port, []net.IP{MDNSGroup()}, ifi)
	if err != nil {
		return nil, err
	}
	return NewMDNS(conn, cfg.Service), nil
}
