package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "netaudio") {
		t.Errorf("GetConfigDir() = %v, should contain 'netaudio'", configDir)
	}

	if runtime.GOOS == "linux" {
		if want := filepath.Join("/tmp/xdg", "netaudio"); configDir != want {
			t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Network.ControlPort != 4440 {
		t.Errorf("ControlPort = %d, want 4440", cfg.Network.ControlPort)
	}
	if len(cfg.Network.NotificationPorts) != 8 || cfg.Network.NotificationPorts[0] != 8700 || cfg.Network.NotificationPorts[7] != 8707 {
		t.Errorf("NotificationPorts = %v, want 8700..8707", cfg.Network.NotificationPorts)
	}
	if !reflect.DeepEqual(cfg.Network.MulticastGroups, []string{"224.0.0.230", "224.0.0.231", "224.0.0.232", "224.0.0.233"}) {
		t.Errorf("MulticastGroups = %v", cfg.Network.MulticastGroups)
	}
	if cfg.Discovery.Backend != BackendMDNS {
		t.Errorf("Backend = %q, want %q", cfg.Discovery.Backend, BackendMDNS)
	}
	if !cfg.Discovery.Enabled || !cfg.Notifications.Enabled {
		t.Error("discovery and notifications should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() of missing file = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
network:
  interface: 192.168.1.10
discovery:
  backend: zeroconf
  timeout: 5s
logging:
  debug: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Network.Interface != "192.168.1.10" {
		t.Errorf("Interface = %q, want %q", cfg.Network.Interface, "192.168.1.10")
	}
	if cfg.Discovery.Backend != BackendZeroconf {
		t.Errorf("Backend = %q, want %q", cfg.Discovery.Backend, BackendZeroconf)
	}
	if cfg.Discovery.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Discovery.Timeout)
	}
	if !cfg.Logging.Debug {
		t.Error("Logging.Debug = false, want true")
	}

	// Untouched fields keep defaults
	if cfg.Network.ControlPort != DefaultControlPort {
		t.Errorf("ControlPort = %d, want %d", cfg.Network.ControlPort, DefaultControlPort)
	}
	if cfg.Discovery.Service != DefaultDiscoveryService {
		t.Errorf("Service = %q, want %q", cfg.Discovery.Service, DefaultDiscoveryService)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "network: [unclosed"},
		{"wrong version", "version: 7\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Network.Interface = "eth0"
	cfg.Discovery.Timeout = 3 * time.Second
	cfg.Server.Listen = "127.0.0.1:9000"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind after Save()")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("Load() after Save() = %+v, want %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"control port zero", func(c *Config) { c.Network.ControlPort = 0 }, "network.control_port"},
		{"notification port too large", func(c *Config) { c.Network.NotificationPorts = []int{70000} }, "network.notification_ports"},
		{"duplicate notification port", func(c *Config) { c.Network.NotificationPorts = []int{8700, 8700} }, "network.notification_ports"},
		{"unicast group", func(c *Config) { c.Network.MulticastGroups = []string{"10.0.0.1"} }, "network.multicast_groups"},
		{"garbage group", func(c *Config) { c.Network.MulticastGroups = []string{"nope"} }, "network.multicast_groups"},
		{"unknown backend", func(c *Config) { c.Discovery.Backend = "bonjour" }, "discovery.backend"},
		{"bad service", func(c *Config) { c.Discovery.Service = "netaudio.local" }, "discovery.service"},
		{"negative timeout", func(c *Config) { c.Discovery.Timeout = -time.Second }, "discovery.timeout"},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad listen", func(c *Config) { c.Server.Listen = "9440" }, "server.listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
