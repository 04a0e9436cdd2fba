// Package config provides configuration file management for netaudio.
//
// The configuration is a YAML file holding network, discovery, notification,
// logging and server settings. Every field has a default, so a missing file
// is equivalent to an empty one. Command-line flags override file values.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/netaudio/config.yaml or $HOME/.config/netaudio/config.yaml
//   - macOS: $HOME/.config/netaudio/config.yaml
//   - Windows: %LOCALAPPDATA%\netaudio\config.yaml
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Network.Interface = "192.168.1.10"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Save is serialized by a package mutex and writes atomically through a
// temporary file. A loaded Config is a plain value; callers synchronize
// their own mutations.
package config
