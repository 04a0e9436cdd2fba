// Package transporttest provides an in-memory transport.Conn for tests.
package transporttest

import (
	"net"
	"sync"

	"github.com/muurk/netaudio/internal/transport"
)

var _ transport.Conn = (*MemConn)(nil)

// Datagram is one packet with its peer address.
type Datagram struct {
	Data []byte
	Addr net.Addr
}

// MemConn is an in-memory transport.Conn. Datagrams passed to Deliver are returned by
// ReadFrom; datagrams written with WriteTo are recorded for inspection.
type MemConn struct {
	local  net.Addr
	inbox  chan Datagram
	closed chan struct{}
	once   sync.Once

	mu   sync.Mutex
	sent []Datagram
}

// NewMemConn returns a MemConn reporting local as its address.
func NewMemConn(local net.Addr) *MemConn {
	return &MemConn{
		local:  local,
		inbox:  make(chan Datagram, 64),
		closed: make(chan struct{}),
	}
}

// Deliver queues a datagram for ReadFrom. It reports false once the
// connection is closed.
func (c *MemConn) Deliver(data []byte, from net.Addr) bool {
	d := Datagram{Data: append([]byte(nil), data...), Addr: from}
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.inbox <- d:
		return true
	case <-c.closed:
		return false
	}
}

// ReadFrom blocks until a delivered datagram is available or the
// connection is closed.
func (c *MemConn) ReadFrom(p []byte) (int, net.Addr, error) {
	select {
	case d := <-c.inbox:
		return copy(p, d.Data), d.Addr, nil
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

// WriteTo records the datagram.
func (c *MemConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	select {
	case <-c.closed:
		return 0, net.ErrClosed
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Datagram{Data: append([]byte(nil), p...), Addr: addr})
	return len(p), nil
}

// Sent returns a copy of every datagram written so far.
func (c *MemConn) Sent() []Datagram {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Datagram(nil), c.sent...)
}

// Reset forgets recorded datagrams.
func (c *MemConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

// LocalAddr returns the address given to NewMemConn.
func (c *MemConn) LocalAddr() net.Addr {
	return c.local
}

// Close unblocks readers. Closing twice is a no-op.
func (c *MemConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}
