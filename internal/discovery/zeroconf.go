package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/logging"
)

// Zeroconf discovers devices by browsing one service type with the
// zeroconf resolver.
type Zeroconf struct {
	// Service is the browsed type, e.g. "_netaudio-arc._udp"
	Service string

	// Interfaces restricts browsing; empty means all multicast interfaces
	Interfaces []net.Interface
}

// NewZeroconf returns a Zeroconf discoverer for the service in query
// ("_netaudio-arc._udp.local" browses "_netaudio-arc._udp").
func NewZeroconf(query string, ifi *net.Interface) *Zeroconf {
	if query == "" {
		query = DefaultQuery
	}
	z := &Zeroconf{Service: strings.TrimSuffix(trimDot(query), ".local")}
	if ifi != nil {
		z.Interfaces = []net.Interface{*ifi}
	}
	return z
}

// Discover browses until ctx is done.
func (z *Zeroconf) Discover(ctx context.Context, out chan<- Response) error {
	opts := []zeroconf.ClientOption{zeroconf.SelectIPTraffic(zeroconf.IPv4)}
	if len(z.Interfaces) > 0 {
		opts = append(opts, zeroconf.SelectIfaces(z.Interfaces))
	}

	resolver, err := zeroconf.NewResolver(opts...)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			resp, ok := z.parseServiceEntry(entry)
			if !ok {
				continue
			}
			select {
			case out <- resp:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, z.Service, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	logging.Debug("zeroconf browse started", zap.String("service", z.Service))

	<-ctx.Done()
	return nil
}

// parseServiceEntry converts a resolved instance to a Response carrying a
// single PTR answer, the shape a raw responder would have sent. Entries
// without an IPv4 address are dropped.
func (z *Zeroconf) parseServiceEntry(entry *zeroconf.ServiceEntry) (Response, bool) {
	if entry == nil || entry.Instance == "" || len(entry.AddrIPv4) == 0 {
		return Response{}, false
	}

	service := entry.Service
	if service == "" {
		service = z.Service
	}
	domain := trimDot(entry.Domain)
	if domain == "" {
		domain = trimDot(ServiceDomain)
	}
	name := service + "." + domain

	return Response{
		Address: entry.AddrIPv4[0].String(),
		Answers: []Answer{{
			Name: name,
			Type: "PTR",
			Data: entry.Instance + "." + name,
		}},
	}, true
}
