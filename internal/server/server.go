package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/metrics"
)

// Source is the part of the client the server reads from.
type Source interface {
	Devices() []device.Device
	Device(address string) (device.Device, bool)
	Subscribe(fn dante.Handler) func()
}

// Config holds the server configuration
type Config struct {
	Listen string // host:port, ":0" picks a free port
}

// Server serves device state and events over HTTP
type Server struct {
	config      *Config
	source      Source
	metrics     *metrics.Metrics
	upgrader    websocket.Upgrader
	httpServer  *http.Server
	listener    net.Listener
	ready       chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server instance
func New(config *Config, source Source, m *metrics.Metrics) *Server {
	s := &Server{
		config:      config,
		source:      source,
		metrics:     m,
		ready:       make(chan struct{}),
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Event streams are read-only and carry no credentials
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves until ctx is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	s.listener = listener
	close(s.ready)

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the listening address once Start has bound it.
func (s *Server) Addr() net.Addr {
	<-s.ready
	return s.listener.Addr()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	// Hijacked WebSocket connections are not tracked by http.Server
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Debug("Closing event stream", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of open event streams
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(addr string, conn *websocket.Conn) {
	s.mu.Lock()
	s.activeConns[addr] = conn
	s.mu.Unlock()
}

func (s *Server) untrack(addr string) {
	s.mu.Lock()
	delete(s.activeConns, addr)
	s.mu.Unlock()
}
