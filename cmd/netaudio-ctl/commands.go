package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/protocol"
	"github.com/muurk/netaudio/internal/ui"
)

var assumeYes bool

func init() {
	channelNameCmd.AddCommand(channelNameSetCmd, channelNameResetCmd)
	deviceNameCmd.AddCommand(deviceNameSetCmd, deviceNameResetCmd)

	rootCmd.AddCommand(channelNameCmd)
	rootCmd.AddCommand(deviceNameCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(unsubscribeCmd)

	unsubscribeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

var channelNameCmd = &cobra.Command{
	Use:   "channel-name",
	Short: "Rename or reset a channel",
}

var channelNameSetCmd = &cobra.Command{
	Use:     "set <ip> <rx|tx> <channel> <name>",
	Short:   "Rename a channel",
	Example: `  netaudio-ctl channel-name set 192.168.1.20 rx 3 "Vocal 1"`,
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, channel, err := parseChannel(args[1], args[2])
		if err != nil {
			return err
		}
		return control(cmd, "Rename channel", func(c *dante.Client) error {
			return c.SetChannelName(args[0], kind, channel, args[3])
		}, ui.Param{Key: "Device", Value: args[0]},
			ui.Param{Key: "Channel", Value: fmt.Sprintf("%s %d", kind, channel)},
			ui.Param{Key: "Name", Value: args[3]})
	},
}

var channelNameResetCmd = &cobra.Command{
	Use:   "reset <ip> <rx|tx> <channel>",
	Short: "Restore a channel's default name",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, channel, err := parseChannel(args[1], args[2])
		if err != nil {
			return err
		}
		return control(cmd, "Reset channel name", func(c *dante.Client) error {
			return c.ResetChannelName(args[0], kind, channel)
		}, ui.Param{Key: "Device", Value: args[0]},
			ui.Param{Key: "Channel", Value: fmt.Sprintf("%s %d", kind, channel)})
	},
}

var deviceNameCmd = &cobra.Command{
	Use:   "device-name",
	Short: "Rename or reset a device",
}

var deviceNameSetCmd = &cobra.Command{
	Use:   "set <ip> <name>",
	Short: "Rename a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return control(cmd, "Rename device", func(c *dante.Client) error {
			return c.SetDeviceName(args[0], args[1])
		}, ui.Param{Key: "Device", Value: args[0]}, ui.Param{Key: "Name", Value: args[1]})
	},
}

var deviceNameResetCmd = &cobra.Command{
	Use:   "reset <ip>",
	Short: "Restore a device's default name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return control(cmd, "Reset device name", func(c *dante.Client) error {
			return c.ResetDeviceName(args[0])
		}, ui.Param{Key: "Device", Value: args[0]})
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <ip> <rx-channel> <tx-channel-name> <tx-device-name>",
	Short: "Route a transmit channel to a receive channel",
	Long: `Subscribe receive channel <rx-channel> on the device at <ip> to the
transmit channel named <tx-channel-name> on the device named <tx-device-name>.`,
	Example: `  netaudio-ctl subscribe 192.168.1.20 1 "Out 1" stage-box`,
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		rx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rx channel %q: %w", args[1], err)
		}
		return control(cmd, "Subscribe channel", func(c *dante.Client) error {
			return c.MakeSubscription(args[0], rx, args[2], args[3])
		}, ui.Param{Key: "Device", Value: args[0]},
			ui.Param{Key: "Rx channel", Value: args[1]},
			ui.Param{Key: "Source", Value: args[2] + "@" + args[3]})
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <ip> <rx-channel>",
	Short: "Clear a receive channel's subscription",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rx channel %q: %w", args[1], err)
		}
		if !assumeYes && !ui.ConfirmSubscriptionChange(os.Stdin, os.Stdout, args[0], rx) {
			return nil
		}
		return control(cmd, "Clear subscription", func(c *dante.Client) error {
			return c.ClearSubscription(args[0], rx)
		}, ui.Param{Key: "Device", Value: args[0]}, ui.Param{Key: "Rx channel", Value: args[1]})
	},
}

func parseChannel(kindArg, channelArg string) (protocol.ChannelType, int, error) {
	kind, err := protocol.ParseChannelType(kindArg)
	if err != nil {
		return "", 0, err
	}
	channel, err := strconv.Atoi(channelArg)
	if err != nil {
		return "", 0, fmt.Errorf("invalid channel number %q: %w", channelArg, err)
	}
	return kind, channel, nil
}

// control runs one command over a control-only client and reports the
// outcome in a result box.
func control(cmd *cobra.Command, title string, fn func(c *dante.Client) error, details ...ui.Param) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	p := ui.NewPrinter(cmd.OutOrStdout())
	if err := withControl(ctx, fn); err != nil {
		p.PrintFailure(title, err)
		return err
	}
	p.PrintSuccess(title, details...)
	return nil
}
