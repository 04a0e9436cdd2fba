// Netaudio-ctl discovers and controls networked audio devices on the LAN.
//
// It lists devices and their channels, renames devices and channels,
// routes receive channels to transmit channels, and can follow device
// changes live in the terminal or over HTTP.
//
// Usage:
//
//	netaudio-ctl [command] [flags]
//
// See 'netaudio-ctl --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/netaudio/internal/config"
	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/version"
)

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath  string
	ifaceFlag   string
	logLevel    string
	debugFrames bool
)

// cfg is the effective configuration: the config file with flag overrides
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "netaudio-ctl",
	Short: "Networked audio device control utility",
	Long: `A command-line client for networked audio devices.

Discovers devices over mDNS, reads their names, channel counts, channel
names and subscriptions over the UDP control protocol, and follows the
multicast change notifications devices send.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/netaudio/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&ifaceFlag, "interface", "", "Local interface name or IPv4 address to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().BoolVar(&debugFrames, "debug", false, "Log every sent and received frame")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file, applies flag overrides and starts logging
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyOverrides(cmd, loaded)

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Initialize(loaded.Logging.Level, loaded.Logging.Format); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// applyOverrides copies explicitly set global flags into c
func applyOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("interface") {
		c.Network.Interface = ifaceFlag
	}
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if flags.Changed("debug") {
		c.Logging.Debug = debugFrames
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("netaudio-ctl %s\n", version.Full())
		fmt.Printf("  %s\n", version.Platform())
	},
}
