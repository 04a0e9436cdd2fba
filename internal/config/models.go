package config

import "time"

// CurrentVersion is the configuration schema version written by Save.
const CurrentVersion = 1

// Config represents the entire configuration file.
type Config struct {
	Version       int                 `yaml:"version"`
	Network       NetworkConfig       `yaml:"network"`
	Discovery     DiscoveryConfig     `yaml:"discovery"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Server        ServerConfig        `yaml:"server"`
}

// NetworkConfig holds socket settings for the control channel and the
// multicast notification listeners.
type NetworkConfig struct {
	Interface         string   `yaml:"interface,omitempty"` // Local IPv4 address or interface name; empty = all
	ControlPort       int      `yaml:"control_port"`        // Device-side control port (destination only)
	NotificationPorts []int    `yaml:"notification_ports"`  // Local ports for notification listeners
	MulticastGroups   []string `yaml:"multicast_groups"`    // Groups joined by every listener
}

// DiscoveryConfig selects and tunes the discovery backend.
type DiscoveryConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"` // "mdns" or "zeroconf"
	Service string        `yaml:"service"` // PTR query name
	Timeout time.Duration `yaml:"timeout"` // Browse duration; 0 = until shutdown
}

// NotificationsConfig toggles the multicast notification listeners.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig controls log output and the frame debug toggle.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"` // debug, info, warn, error; empty = silent
	Format string `yaml:"format"`          // console or json
	Debug  bool   `yaml:"debug"`           // Log every sent and received frame
}

// ServerConfig holds settings for the HTTP surface started by `serve`.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// Discovery backends
const (
	BackendMDNS     = "mdns"
	BackendZeroconf = "zeroconf"
)

// Default values
const (
	DefaultControlPort      = 4440
	DefaultDiscoveryService = "_netaudio-arc._udp.local"
	DefaultServerListen     = ":9440"
)

// DefaultNotificationPorts returns the eight notification listener ports.
func DefaultNotificationPorts() []int {
	return []int{8700, 8701, 8702, 8703, 8704, 8705, 8706, 8707}
}

// DefaultMulticastGroups returns the notification multicast groups.
func DefaultMulticastGroups() []string {
	return []string{"224.0.0.230", "224.0.0.231", "224.0.0.232", "224.0.0.233"}
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Network: NetworkConfig{
			ControlPort:       DefaultControlPort,
			NotificationPorts: DefaultNotificationPorts(),
			MulticastGroups:   DefaultMulticastGroups(),
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			Backend: BackendMDNS,
			Service: DefaultDiscoveryService,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "console",
		},
		Server: ServerConfig{
			Listen: DefaultServerListen,
		},
	}
}
