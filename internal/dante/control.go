package dante

import (
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/metrics"
	"github.com/muurk/netaudio/internal/protocol"
	"github.com/muurk/netaudio/internal/transport"
)

// replyEvents maps reply commands to the event published after parsing.
var replyEvents = map[protocol.Command]EventName{
	protocol.CmdChannelCount:   EventChannelCountRead,
	protocol.CmdTxChannelNames: EventTxChannelNamesRead,
	protocol.CmdRxChannelNames: EventRxChannelNamesRead,
	protocol.CmdDeviceInfo:     EventDeviceNameRead,
}

// send encodes a command and writes it to the device's control port.
func (c *Client) send(address string, cmd protocol.Command, args []byte) error {
	ip := net.ParseIP(address).To4()
	if ip == nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	frame, err := protocol.Encode(cmd, protocol.NewTransactionID(), args)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd, err)
	}

	dst := &net.UDPAddr{IP: ip, Port: c.controlPort}
	if c.debug.Load() {
		logging.LogDatagram("Tx", dst, frame)
	}

	if _, err := c.control.WriteTo(frame, dst); err != nil {
		c.metrics.RecordSendError()
		return fmt.Errorf("send %s to %s: %w", cmd, address, err)
	}
	c.metrics.RecordFrameSent(cmd.String())
	return nil
}

// sendAsync is used where no caller can receive the error: discovery,
// notifications, and reply continuations.
func (c *Client) sendAsync(address string, err error) {
	if err != nil {
		logging.Warn("Command failed",
			zap.String("remote_addr", address),
			zap.Error(err),
		)
	}
}

func channelNumber(channel int) (uint16, error) {
	if channel < 1 || channel > 0xFFFF {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return uint16(channel), nil
}

// GetDeviceInfo requests the device's info; the reply updates its name.
func (c *Client) GetDeviceInfo(address string) error {
	return c.send(address, protocol.CmdDeviceInfo, protocol.DefaultArgs())
}

// SetDeviceName renames the device. An empty name resets it.
func (c *Client) SetDeviceName(address, name string) error {
	return c.send(address, protocol.CmdSetDeviceName, protocol.SetDeviceNameArgs(name))
}

// ResetDeviceName restores the device's factory name.
func (c *Client) ResetDeviceName(address string) error {
	return c.send(address, protocol.CmdSetDeviceName, protocol.DefaultArgs())
}

// GetChannelCount requests the device's channel counts and returns the
// currently cached counts.
func (c *Client) GetChannelCount(address string) (device.ChannelCount, error) {
	if err := c.send(address, protocol.CmdChannelCount, protocol.DefaultArgs()); err != nil {
		return device.ChannelCount{}, err
	}
	count, _ := c.registry.ChannelCount(address)
	return count, nil
}

// GetChannelNames requests every page of tx or rx channel names, as far as
// the cached channel count reaches, and returns the currently cached
// channels. The device must have been discovered.
func (c *Client) GetChannelNames(address string, kind protocol.ChannelType) (device.Channels, error) {
	if _, err := protocol.ParseChannelType(string(kind)); err != nil {
		return device.Channels{}, err
	}

	d, ok := c.registry.FindByAddress(address)
	if !ok {
		return device.Channels{}, fmt.Errorf("%w: %s", ErrUnknownDevice, address)
	}

	count := d.ChannelCount.Rx
	if kind == protocol.ChannelTx {
		count = d.ChannelCount.Tx
	}

	for _, start := range protocol.ChannelNamePages(kind, count) {
		if err := c.send(address, kind.NamesCommand(), protocol.ChannelNamesArgs(start)); err != nil {
			return d.Channels, err
		}
	}
	return d.Channels, nil
}

// SetChannelName renames a 1-based tx or rx channel. An empty name resets it.
func (c *Client) SetChannelName(address string, kind protocol.ChannelType, channel int, name string) error {
	n, err := channelNumber(channel)
	if err != nil {
		return err
	}
	args, cmd, err := protocol.SetChannelNameArgs(kind, n, name)
	if err != nil {
		return err
	}
	return c.send(address, cmd, args)
}

// ResetChannelName restores a channel's factory name.
func (c *Client) ResetChannelName(address string, kind protocol.ChannelType, channel int) error {
	return c.SetChannelName(address, kind, channel, "")
}

// MakeSubscription routes txChannel on txDevice to rxChannel on address.
func (c *Client) MakeSubscription(address string, rxChannel int, txChannel, txDevice string) error {
	n, err := channelNumber(rxChannel)
	if err != nil {
		return err
	}
	return c.send(address, protocol.CmdSubscription, protocol.SubscriptionArgs(n, txChannel, txDevice))
}

// ClearSubscription removes rxChannel's subscription.
func (c *Client) ClearSubscription(address string, rxChannel int) error {
	n, err := channelNumber(rxChannel)
	if err != nil {
		return err
	}
	return c.send(address, protocol.CmdSubscription, protocol.ClearSubscriptionArgs(n))
}

// handleReply decodes a control-socket datagram and applies it to the
// sender's record.
func (c *Client) handleReply(data []byte, from net.Addr) {
	if c.debug.Load() {
		logging.LogDatagram("Rx", from, data)
	}

	frame, ok := protocol.Decode(data, len(data))
	if !ok {
		c.metrics.RecordFrameDropped(metrics.DropMalformed)
		logging.LogRawBytes("Dropped malformed reply", data)
		return
	}

	parse, ok := protocol.ParserFor(frame.Command)
	if !ok {
		c.metrics.RecordFrameDropped(metrics.DropUnknownCommand)
		logging.Debug("Ignoring reply", zap.Stringer("command", frame.Command))
		return
	}

	address := transport.HostOf(from)
	d, changed, ok := c.registry.Update(address, func(d *device.Device) bool {
		return parse(frame.Raw, d)
	})
	if !ok {
		c.metrics.RecordFrameDropped(metrics.DropUnknownSender)
		logging.Debug("Reply from unknown device", zap.String("remote_addr", address))
		return
	}
	c.metrics.RecordFrameReceived(frame.Command.String())

	if c.debug.Load() {
		logging.Info("Device state", zap.String("remote_addr", address), zap.Any("device", d))
	}

	c.emit(replyEvents[frame.Command], d, changed)

	if frame.Command == protocol.CmdChannelCount && c.registry.TakeAwaitingChannelNames(address) {
		c.requestChannelNames(address)
	}
}

// requestChannelNames queries tx then rx names for a device.
func (c *Client) requestChannelNames(address string) {
	for _, kind := range []protocol.ChannelType{protocol.ChannelTx, protocol.ChannelRx} {
		_, err := c.GetChannelNames(address, kind)
		c.sendAsync(address, err)
	}
}
