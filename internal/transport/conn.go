package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// MaxDatagramSize is the read buffer size for every socket.
const MaxDatagramSize = 65535

// ErrInterfaceNotFound is returned when an interface selector matches nothing.
var ErrInterfaceNotFound = errors.New("network interface not found")

// Conn is the datagram socket surface used by the client.
type Conn interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
	WriteTo(p []byte, addr net.Addr) (n int, err error)
	LocalAddr() net.Addr
	Close() error
}

// ResolveInterface maps an interface selector to a network interface and
// its IPv4 address. The selector is either a local IPv4 address or an
// interface name. An empty selector returns nil values, meaning the system
// default.
func ResolveInterface(selector string) (*net.Interface, net.IP, error) {
	if selector == "" {
		return nil, nil, nil
	}

	if ip := net.ParseIP(selector); ip != nil {
		ifaces, err := net.Interfaces()
		if err != nil {
			return nil, nil, fmt.Errorf("list interfaces: %w", err)
		}
		for i := range ifaces {
			if ifaceHasIP(&ifaces[i], ip) {
				return &ifaces[i], ip.To4(), nil
			}
		}
		return nil, nil, fmt.Errorf("%w: no interface has address %s", ErrInterfaceNotFound, selector)
	}

	ifi, err := net.InterfaceByName(selector)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInterfaceNotFound, selector)
	}
	ip, err := firstIPv4(ifi)
	if err != nil {
		return nil, nil, err
	}
	return ifi, ip, nil
}

func ifaceHasIP(ifi *net.Interface, ip net.IP) bool {
	addrs, err := ifi.Addrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.Equal(ip) {
			return true
		}
	}
	return false
}

func firstIPv4(ifi *net.Interface) (net.IP, error) {
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("addresses of %s: %w", ifi.Name, err)
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return ip4, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s has no IPv4 address", ErrInterfaceNotFound, ifi.Name)
}

// ListenControl opens the control socket on an ephemeral port of localIP
// (all addresses when nil).
func ListenControl(localIP net.IP) (*net.UDPConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: localIP, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("listen control socket: %w", err)
	}
	return conn, nil
}

// ListenMulticast opens a listener on port with address reuse, joins each
// group on ifi (the system default when nil), and enables multicast
// loopback so notifications from the local host are seen too.
func ListenMulticast(ctx context.Context, port int, groups []net.IP, ifi *net.Interface) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: reuseControl}
	conn, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen multicast port %d: %w", port, err)
	}

	p := ipv4.NewPacketConn(conn)
	for _, g := range groups {
		if err := p.JoinGroup(ifi, &net.UDPAddr{IP: g}); err != nil {
			conn.Close()
			return nil, fmt.Errorf("join group %s on port %d: %w", g, port, err)
		}
	}
	if ifi != nil {
		if err := p.SetMulticastInterface(ifi); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set multicast interface %s: %w", ifi.Name, err)
		}
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable multicast loopback on port %d: %w", port, err)
	}

	return conn, nil
}

// HostOf returns the IP part of a datagram source address.
func HostOf(addr net.Addr) string {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP.String()
	case nil:
		return ""
	default:
		host, _, err := net.SplitHostPort(a.String())
		if err != nil {
			return a.String()
		}
		return host
	}
}
