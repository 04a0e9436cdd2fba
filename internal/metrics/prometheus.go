// Package metrics exposes Prometheus counters for the netaudio client.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons for FramesDropped
const (
	DropMalformed       = "malformed"
	DropUnknownSender   = "unknown_sender"
	DropUnknownCommand  = "unknown_command"
	DropBadNotification = "bad_notification"
)

// Metrics contains all Prometheus metrics for the client. Each instance
// owns its registry, so several clients can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	// Control channel
	FramesSent     *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec
	FramesDropped  *prometheus.CounterVec
	SendErrors     prometheus.Counter

	// Notifications and discovery
	Notifications      *prometheus.CounterVec
	DiscoveryResponses prometheus.Counter

	// Registry and events
	Devices prometheus.Gauge
	Events  *prometheus.CounterVec

	// HTTP surface
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		FramesSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_frames_sent_total",
			Help: "Total number of command frames sent",
		}, []string{"command"}),
		FramesReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_frames_received_total",
			Help: "Total number of reply frames accepted",
		}, []string{"command"}),
		FramesDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_frames_dropped_total",
			Help: "Total number of datagrams dropped without effect",
		}, []string{"reason"}),
		SendErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "netaudio_send_errors_total",
			Help: "Total number of command frames that failed to send",
		}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_notifications_total",
			Help: "Total number of change notifications received",
		}, []string{"notification"}),
		DiscoveryResponses: f.NewCounter(prometheus.CounterOpts{
			Name: "netaudio_discovery_responses_total",
			Help: "Total number of discovery responses processed",
		}),

		Devices: f.NewGauge(prometheus.GaugeOpts{
			Name: "netaudio_devices",
			Help: "Current number of known devices",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_events_total",
			Help: "Total number of events published to subscribers",
		}, []string{"event"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "netaudio_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
	}
}

// Handler serves this instance's registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordFrameSent increments the sent counter for a command
func (m *Metrics) RecordFrameSent(command string) {
	m.FramesSent.WithLabelValues(command).Inc()
}

// RecordFrameReceived increments the accepted reply counter for a command
func (m *Metrics) RecordFrameReceived(command string) {
	m.FramesReceived.WithLabelValues(command).Inc()
}

// RecordFrameDropped increments the dropped counter for a reason
func (m *Metrics) RecordFrameDropped(reason string) {
	m.FramesDropped.WithLabelValues(reason).Inc()
}

// RecordSendError increments the send error counter
func (m *Metrics) RecordSendError() {
	m.SendErrors.Inc()
}

// RecordNotification increments the notification counter
func (m *Metrics) RecordNotification(notification string) {
	m.Notifications.WithLabelValues(notification).Inc()
}

// RecordDiscoveryResponse increments the discovery response counter
func (m *Metrics) RecordDiscoveryResponse() {
	m.DiscoveryResponses.Inc()
}

// SetDevices sets the current device count
func (m *Metrics) SetDevices(count int) {
	m.Devices.Set(float64(count))
}

// RecordEvent increments the event counter
func (m *Metrics) RecordEvent(event string) {
	m.Events.WithLabelValues(event).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int) {
	m.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
}
