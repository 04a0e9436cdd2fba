package logging

import (
	"net"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_Silent(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	defer SetLogger(nil)

	if err := Initialize("", ""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("silent logger has error level enabled")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	defer SetLogger(nil)

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !core.Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled at warn level")
	}
}

func TestInitialize_BadFormat(t *testing.T) {
	defer SetLogger(nil)
	if err := Initialize("info", "xml"); err == nil {
		t.Error("Initialize() with xml format returned nil error")
	}
}

func TestLogDatagram(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	addr := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 4440}
	LogDatagram("Tx", addr, []byte{0x27, 0x29, 0x00, 0x0d})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if entries[0].Message != "Tx" {
		t.Errorf("message = %q, want %q", entries[0].Message, "Tx")
	}
	if ctx["hex"] != "2729000d" {
		t.Errorf("hex = %v, want 2729000d", ctx["hex"])
	}
	if ctx["remote_addr"] != "10.0.0.5:4440" {
		t.Errorf("remote_addr = %v, want 10.0.0.5:4440", ctx["remote_addr"])
	}
}

func TestHexDump_Truncates(t *testing.T) {
	got := hexDump(make([]byte, maxDumpBytes+10))
	if !strings.HasSuffix(got, "...") {
		t.Errorf("hexDump() of long input missing ellipsis")
	}
	if len(got) != maxDumpBytes*2+3 {
		t.Errorf("len(hexDump()) = %d, want %d", len(got), maxDumpBytes*2+3)
	}
}

func TestAsciiDump(t *testing.T) {
	if got := asciiDump([]byte("ab\x00\xffc")); got != "ab..c" {
		t.Errorf("asciiDump() = %q, want %q", got, "ab..c")
	}
}

func TestEnableFrameLogging(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	defer SetLogger(nil)

	if err := Initialize("", ""); err != nil {
		t.Fatal(err)
	}
	EnableFrameLogging()

	core := GetLogger().Core()
	if !core.Enabled(zapcore.InfoLevel) {
		t.Error("info disabled after EnableFrameLogging on a silent logger")
	}
	if core.Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled after EnableFrameLogging, want info")
	}
}

func TestEnableFrameLogging_KeepsVerboseLogger(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	verbose := zap.New(core)
	SetLogger(verbose)
	defer SetLogger(nil)

	EnableFrameLogging()

	if GetLogger() != verbose {
		t.Error("EnableFrameLogging replaced a logger that already logs info")
	}
}
