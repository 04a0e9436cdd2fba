package logging

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// format is the encoding of the last Initialize call
var format = "console"

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "NETAUDIO_LOG_LEVEL"

// maxDumpBytes caps hex and ASCII dumps in log output
const maxDumpBytes = 256

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize creates a new logger with the specified level and encoding
// ("console" or "json"). If level is empty, it checks NETAUDIO_LOG_LEVEL.
// If neither is set, logging is disabled (silent mode).
func Initialize(level, encoding string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if encoding == "" {
		encoding = "console"
	}
	if encoding != "console" && encoding != "json" {
		return fmt.Errorf("unknown log format %q (want console or json)", encoding)
	}
	format = encoding

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig = zap.NewProductionEncoderConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// EnableFrameLogging makes sure frame dumps reach the output. A logger
// that drops info entries (including the silent default) is replaced by an
// info-level one in the current format; a more verbose logger is kept.
func EnableFrameLogging() {
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		return
	}
	if err := Initialize(zapcore.InfoLevel.String(), format); err != nil {
		Warn("Frame logging unavailable", zap.Error(err))
	}
}

// InitializeFromEnv initializes the logger from the NETAUDIO_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("", "")
}

// SetLogger replaces the global logger. Intended for tests and embedding.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogDatagram logs a sent or received datagram with its hex dump. direction
// is "Tx" or "Rx". Used by the client debug toggle, so it logs at info.
func LogDatagram(direction string, addr net.Addr, data []byte) {
	remote := ""
	if addr != nil {
		remote = addr.String()
	}
	Info(direction,
		zap.String("remote_addr", remote),
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
	)
}

// LogDeviceEvent logs an event published to client subscribers
func LogDeviceEvent(event string, address string, changed bool) {
	Debug("Device event",
		zap.String("event", event),
		zap.String("address", address),
		zap.Bool("changed", changed),
	)
}

// LogRawBytes logs raw bytes (useful for debugging protocol issues)
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		return hex.EncodeToString(data[:maxDumpBytes]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		data = data[:maxDumpBytes]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
