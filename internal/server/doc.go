// Package server exposes a running netaudio client over HTTP.
//
// # Endpoints
//
//	GET /devices            JSON array of every known device
//	GET /devices/{address}  JSON for one device, 404 when unknown
//	GET /events             WebSocket stream of client events
//	GET /metrics            Prometheus metrics
//	GET /healthz            Liveness probe
//
// # Event Stream
//
// Each WebSocket message is one JSON event:
//
//	{"event":"channelCountRead","device":{...},"changed":true}
//
// A new connection first receives a gotDevice event for every device
// already known, then live events as the client publishes them. Slow
// readers lose events rather than stalling the client; every dropped
// event is logged.
//
// # Graceful Shutdown
//
// Shutdown stops the listener, closes open event streams and waits for
// their goroutines to finish or for the context to expire.
package server
