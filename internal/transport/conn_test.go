package transport

import (
	"context"
	"errors"
	"net"
	"runtime"
	"testing"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		name string
		addr net.Addr
		want string
	}{
		{"udp", &net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 4440}, "10.0.0.5"},
		{"tcp", &net.TCPAddr{IP: net.IPv4(10, 0, 0, 6), Port: 80}, "10.0.0.6"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostOf(tt.addr); got != tt.want {
				t.Errorf("HostOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveInterface(t *testing.T) {
	ifi, ip, err := ResolveInterface("")
	if err != nil || ifi != nil || ip != nil {
		t.Errorf("ResolveInterface(\"\") = (%v, %v, %v), want all nil", ifi, ip, err)
	}

	_, _, err = ResolveInterface("no-such-iface0")
	if !errors.Is(err, ErrInterfaceNotFound) {
		t.Errorf("ResolveInterface(bogus name) error = %v, want ErrInterfaceNotFound", err)
	}

	_, _, err = ResolveInterface("203.0.113.254")
	if !errors.Is(err, ErrInterfaceNotFound) {
		t.Errorf("ResolveInterface(unowned ip) error = %v, want ErrInterfaceNotFound", err)
	}
}

func TestResolveInterface_Loopback(t *testing.T) {
	ifi, ip, err := ResolveInterface("127.0.0.1")
	if err != nil {
		t.Skipf("no loopback interface: %v", err)
	}
	if ifi.Flags&net.FlagLoopback == 0 {
		t.Errorf("interface %s is not loopback", ifi.Name)
	}
	if !ip.Equal(net.IPv4(127, 0, 0, 1)) {
		t.Errorf("ip = %v, want 127.0.0.1", ip)
	}
}

func TestListenControl_Ephemeral(t *testing.T) {
	conn, err := ListenControl(net.IPv4(127, 0, 0, 1))
	if err != nil {
		t.Fatalf("ListenControl() error = %v", err)
	}
	defer conn.Close()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	if port == 0 || port == 4440 {
		t.Errorf("control socket bound to port %d, want an ephemeral port", port)
	}
}

func TestListenMulticast_ReusePort(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("address reuse is not configured on windows")
	}
	ctx := context.Background()

	first, err := ListenMulticast(ctx, 0, nil, nil)
	if err != nil {
		t.Fatalf("ListenMulticast() error = %v", err)
	}
	defer first.Close()

	port := first.LocalAddr().(*net.UDPAddr).Port
	second, err := ListenMulticast(ctx, port, nil, nil)
	if err != nil {
		t.Fatalf("second ListenMulticast() on port %d error = %v", port, err)
	}
	second.Close()
}
