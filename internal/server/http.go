package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/logging"
)

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "GET /devices", "/devices", s.handleDevices)
	s.route(mux, "GET /devices/{address}", "/devices/{address}", s.handleDevice)
	s.route(mux, "GET /events", "/events", s.handleEvents)
	s.route(mux, "GET /healthz", "/healthz", handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// route registers fn wrapped with request logging and metrics. endpoint is
// the low-cardinality label recorded for the request.
func (s *Server) route(mux *http.ServeMux, pattern, endpoint string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		fn(rec, r)

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, endpoint, rec.status)
		}
		logging.Debug("HTTP request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleDevices always answers with a JSON array, "[]" when empty
func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.source.Devices()
	if devices == nil {
		devices = []device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	d, ok := s.source.Device(address)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown device " + address})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", zap.Error(err))
	}
}

// statusRecorder captures the response status for logging and metrics.
// Hijack is forwarded so WebSocket upgrades still work through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
