// Package logging provides structured logging for netaudio.
//
// This package wraps a global zap logger with convenience functions used by
// the control engine, discovery and the HTTP server. Until Initialize is
// called the logger is a no-op, so library code never writes to the
// terminal on its own.
//
// # Log Levels
//
//   - Debug: Frame parsing, dropped datagrams, notification routing
//   - Info: Discovery, device events, server lifecycle, Tx/Rx dumps when the
//     client debug toggle is on
//   - Warn: Send failures, malformed replies, socket errors
//   - Error: Startup failures
//
// # Structured Logging
//
//	logging.Info("Device discovered",
//	    zap.String("address", "192.168.1.40"),
//	    zap.String("name", "Stage-Box"),
//	)
//
// # Configuration
//
// The level comes from the argument to Initialize, or from NETAUDIO_LOG_LEVEL
// when the argument is empty:
//
//	if err := logging.Initialize("debug", "console"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and
// SetLogger are meant to be called once at startup.
package logging
