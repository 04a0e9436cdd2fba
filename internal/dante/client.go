package dante

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/discovery"
	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/metrics"
	"github.com/muurk/netaudio/internal/protocol"
	"github.com/muurk/netaudio/internal/transport"
)

// inboxSize bounds datagrams queued for the dispatch goroutine
const inboxSize = 256

type inboundKind int

const (
	inboundReply inboundKind = iota
	inboundNotification
	inboundDiscovery
)

type inbound struct {
	kind inboundKind
	data []byte
	from net.Addr
	resp discovery.Response
}

// Client is the netaudio control client.
type Client struct {
	registry *device.Registry
	metrics  *metrics.Metrics
	bus      eventBus

	control     transport.Conn
	listeners   []transport.Conn
	discoverer  discovery.Discoverer
	controlPort int

	discoveryTimeout time.Duration
	debug            atomic.Bool

	inbox     chan inbound
	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithNotificationConns sets the multicast listener sockets.
func WithNotificationConns(conns ...transport.Conn) Option {
	return func(c *Client) {
		c.listeners = append(c.listeners, conns...)
	}
}

// WithDiscoverer sets the discovery backend queried by Run.
func WithDiscoverer(d discovery.Discoverer) Option {
	return func(c *Client) {
		c.discoverer = d
	}
}

// WithDiscoveryTimeout stops discovery after d. Zero keeps it running
// until Run returns.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.discoveryTimeout = d
	}
}

// WithMetrics sets the metrics sink. A private one is created otherwise.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithControlPort overrides the device control port commands are sent to.
func WithControlPort(port int) Option {
	return func(c *Client) {
		c.controlPort = port
	}
}

// WithDebug sets the initial state of the frame debug toggle.
func WithDebug(on bool) Option {
	return func(c *Client) {
		c.debug.Store(on)
	}
}

// New creates a client sending commands over control. The client owns
// control and every listener and closes them in Close.
func New(control transport.Conn, opts ...Option) *Client {
	c := &Client{
		registry:    device.NewRegistry(),
		control:     control,
		controlPort: protocol.ControlPort,
		inbox:       make(chan inbound, inboxSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewMetrics()
	}
	if c.debug.Load() {
		logging.EnableFrameLogging()
	}
	return c
}

// Metrics returns the client's metrics.
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// SetDebug switches logging of every sent and received frame. Turning it
// on raises a silent logger to info so the frames are printed.
func (c *Client) SetDebug(on bool) {
	if on {
		logging.EnableFrameLogging()
	}
	c.debug.Store(on)
}

// Devices returns snapshots of every known device in discovery order.
func (c *Client) Devices() []device.Device {
	return c.registry.All()
}

// Device returns a snapshot of the device at address.
func (c *Client) Device(address string) (device.Device, bool) {
	return c.registry.FindByAddress(address)
}

// Subscribe registers fn for every event. The returned function removes it.
func (c *Client) Subscribe(fn Handler) func() {
	return c.bus.add("", fn)
}

// On registers fn for one named event. The returned function removes it.
func (c *Client) On(name EventName, fn Handler) func() {
	return c.bus.add(name, fn)
}

// Run starts discovery and the socket readers and dispatches everything
// they produce until ctx is cancelled or a socket fails. The sockets are
// closed when Run returns.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errc := make(chan error, len(c.listeners)+2)

	start := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errc <- err
			}
		}()
	}

	start(func() error { return c.readLoop(ctx, c.control, inboundReply) })
	for _, l := range c.listeners {
		start(func() error { return c.readLoop(ctx, l, inboundNotification) })
	}
	if c.discoverer != nil {
		start(func() error { return c.discover(ctx) })
	}

	logging.Info("Client running",
		zap.Int("listeners", len(c.listeners)),
		zap.Bool("discovery", c.discoverer != nil),
	)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case msg := <-c.inbox:
			c.dispatch(msg)
		case err := <-errc:
			runErr = err
			logging.Error("Client stopping", zap.Error(err))
			break loop
		}
	}

	cancel()
	c.Close()
	wg.Wait()
	return runErr
}

// Close closes every socket owned by the client. It is safe to call more
// than once.
func (c *Client) Close() error {
	var errs []error
	c.closeOnce.Do(func() {
		if err := c.control.Close(); err != nil {
			errs = append(errs, err)
		}
		for _, l := range c.listeners {
			if err := l.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// readLoop forwards datagrams from conn to the inbox. Errors after
// shutdown are not reported.
func (c *Client) readLoop(ctx context.Context, conn transport.Conn, kind inboundKind) error {
	buf := make([]byte, transport.MaxDatagramSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read from %s: %w", conn.LocalAddr(), err)
		}

		msg := inbound{kind: kind, data: append([]byte(nil), buf[:n]...), from: from}
		select {
		case c.inbox <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

// discover runs the discovery backend, forwarding responses to the inbox.
func (c *Client) discover(ctx context.Context) error {
	if c.discoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.discoveryTimeout)
		defer cancel()
	}

	responses := make(chan discovery.Response)
	errc := make(chan error, 1)
	go func() {
		errc <- c.discoverer.Discover(ctx, responses)
	}()

	for {
		select {
		case resp := <-responses:
			select {
			case c.inbox <- inbound{kind: inboundDiscovery, resp: resp}:
			case <-ctx.Done():
			}
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("discovery: %w", err)
			}
			logging.Debug("Discovery finished")
			return nil
		}
	}
}

func (c *Client) dispatch(msg inbound) {
	switch msg.kind {
	case inboundReply:
		c.handleReply(msg.data, msg.from)
	case inboundNotification:
		c.handleNotification(msg.data, msg.from)
	case inboundDiscovery:
		c.handleDiscovery(msg.resp)
	}
}

// emit publishes an event for a device snapshot.
func (c *Client) emit(name EventName, d device.Device, changed bool) {
	logging.LogDeviceEvent(string(name), d.Address, changed)
	c.metrics.RecordEvent(string(name))
	c.bus.publish(Event{Name: name, Device: d, Changed: changed})
}
