package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Events queued per stream before new ones are dropped
	eventBuffer = 64
)

// handleEvents upgrades the request and streams client events as JSON
// until the peer goes away or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := r.RemoteAddr
	s.track(remoteAddr, conn)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.untrack(remoteAddr)
		s.streamEvents(conn, remoteAddr)
	}()
}

func (s *Server) streamEvents(conn *websocket.Conn, remoteAddr string) {
	logging.Info("Event stream opened", zap.String("remote_addr", remoteAddr))
	defer func() {
		_ = conn.Close()
		logging.Info("Event stream closed", zap.String("remote_addr", remoteAddr))
	}()

	events := make(chan dante.Event, eventBuffer)
	unsubscribe := s.source.Subscribe(func(ev dante.Event) {
		select {
		case events <- ev:
		default:
			logging.Warn("Event stream too slow, dropping event",
				zap.String("remote_addr", remoteAddr),
				zap.String("event", string(ev.Name)),
			)
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go readPump(conn, closed)

	write := func(ev dante.Event) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			logging.Debug("Event write failed",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return false
		}
		return true
	}

	for _, d := range s.source.Devices() {
		if !write(dante.Event{Name: dante.EventGotDevice, Device: d}) {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !write(ev) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// readPump discards client messages and handles pongs. It closes closed
// when the connection fails or the peer closes it.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
