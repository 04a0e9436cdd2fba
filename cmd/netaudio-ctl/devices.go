package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/discovery"
	"github.com/muurk/netaudio/internal/server"
	"github.com/muurk/netaudio/internal/transport"
	"github.com/muurk/netaudio/internal/ui"
)

// Output formats for device listings
const (
	formatDetailed = "detailed"
	formatCompact  = "compact"
	formatJSON     = "json"
)

var (
	scanTimeout  int
	outputFormat string
	listenAddr   string
)

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)

	devicesCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Discovery time in seconds")
	devicesCmd.Flags().StringVar(&outputFormat, "format", formatDetailed, "Output format (detailed, compact, json)")
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Discovery time in seconds")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (default from config, :9440)")
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Discover devices and show their channels",
	Long: `Discover devices, query each one for its name, channel counts and
channel names, and print what was learned when the timeout expires.`,
	Example: `  # Discover for 5 seconds (default)
  netaudio-ctl devices

  # One line per device
  netaudio-ctl devices --format compact

  # JSON for scripting
  netaudio-ctl devices --timeout 10 --format json`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	if err := checkFormat(outputFormat); err != nil {
		return err
	}
	timeout := time.Duration(scanTimeout) * time.Second

	ctx, stop := signalContext(cmd)
	defer stop()

	c := *cfg
	c.Discovery.Enabled = true
	c.Discovery.Timeout = timeout

	s, err := startSession(ctx, &c)
	if err != nil {
		return err
	}

	if outputFormat == formatDetailed && ui.IsTerminal(os.Stdout) {
		iface := c.Network.Interface
		if iface == "" {
			iface = "all"
		}
		ui.NewPrinter(os.Stdout).PrintHeader("Device discovery", cmd.CommandPath(),
			ui.Param{Key: "Interface", Value: iface},
			ui.Param{Key: "Service", Value: c.Discovery.Service},
			ui.Param{Key: "Timeout", Value: timeout.String()})
		if _, err := ui.RunScan(ctx, s.Subscribe, "Discovering devices...", timeout); err != nil {
			_ = s.Stop()
			return err
		}
	} else {
		select {
		case <-time.After(timeout):
		case <-ctx.Done():
		case <-s.done:
		}
	}

	if err := s.Stop(); err != nil {
		return err
	}
	return printDevices(os.Stdout, s.Devices(), outputFormat)
}

func checkFormat(format string) error {
	switch format {
	case formatDetailed, formatCompact, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want detailed, compact or json)", format)
	}
}

// printDevices writes a device listing in the given format
func printDevices(w io.Writer, devices []device.Device, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(devices)
	case formatCompact:
		p := ui.NewPrinter(w)
		for _, d := range devices {
			p.PrintDeviceCompact(d)
		}
		return nil
	case formatDetailed:
		p := ui.NewPrinter(w)
		if len(devices) == 0 {
			p.Println("No devices found.")
			p.Newline()
			p.Println("Troubleshooting:")
			p.Println("  - Check that this machine is on the same network as the devices")
			p.Println("  - Select the right network with --interface")
			p.Println("  - Try increasing --timeout")
			return nil
		}
		p.Println(fmt.Sprintf("Found %d device(s):", len(devices)))
		p.Newline()
		for _, d := range devices {
			p.PrintDevice(d)
		}
		return nil
	default:
		return checkFormat(format)
	}
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List mDNS advertisements without querying devices",
	Long: `Browse for device advertisements and print every distinct one heard.

Unlike 'devices', nothing is sent to the devices themselves. Useful for
checking that discovery works on the selected interface.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	ifi, _, err := transport.ResolveInterface(cfg.Network.Interface)
	if err != nil {
		return err
	}
	d, err := discovery.Open(ctx, cfg.Discovery, ifi)
	if err != nil {
		return fmt.Errorf("failed to start discovery: %w", err)
	}

	fmt.Printf("Browsing %s for %ds...\n\n", cfg.Discovery.Service, scanTimeout)

	ads, err := discovery.Scan(ctx, d, time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(ads) == 0 {
		fmt.Println("No advertisements heard.")
		return nil
	}
	for _, ad := range ads {
		fmt.Printf("%-15s  %-22s  %s\n", ad.Address, ad.Service, ad.Name)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow device changes live",
	Long: `Keep discovering and follow device notifications, showing a live table
of devices. When stdout is not a terminal, one line is printed per event.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	c := *cfg
	c.Discovery.Enabled = true
	c.Discovery.Timeout = 0

	s, err := startSession(ctx, &c)
	if err != nil {
		return err
	}

	var uiErr error
	if ui.IsTerminal(os.Stdout) {
		uiErr = ui.RunWatch(ctx, s.Subscribe, s.Devices())
	} else {
		unsubscribe := s.Subscribe(func(ev dante.Event) {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), ui.FormatEvent(ev))
		})
		defer unsubscribe()

		select {
		case <-ctx.Done():
		case <-s.done:
		}
	}

	return errors.Join(uiErr, s.Stop())
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve device state, events and metrics over HTTP",
	Long: `Run the client continuously and expose it over HTTP:

  GET /devices            all known devices as JSON
  GET /devices/{address}  one device
  GET /events             WebSocket stream of client events
  GET /metrics            Prometheus metrics`,
	Example: `  netaudio-ctl serve
  netaudio-ctl serve --listen 127.0.0.1:9440`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	c := *cfg
	c.Discovery.Timeout = 0
	if listenAddr != "" {
		c.Server.Listen = listenAddr
	}

	s, err := startSession(ctx, &c)
	if err != nil {
		return err
	}

	srvCtx, cancelSrv := context.WithCancel(ctx)
	defer cancelSrv()

	srv := server.New(&server.Config{Listen: c.Server.Listen}, s.Client, s.Metrics())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(srvCtx)
	}()

	select {
	case err := <-serveErr:
		return errors.Join(err, s.Stop())
	case <-s.done:
		cancelSrv()
		return errors.Join(s.Stop(), <-serveErr)
	}
}
