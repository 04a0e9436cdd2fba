package protocol

import (
	"encoding/binary"
	"fmt"
)

// Argument builders for command frames. Each returns only the argument
// bytes; Encode adds the header and trailing byte.

// ChannelType selects transmit or receive channels.
type ChannelType string

const (
	ChannelTx ChannelType = "tx"
	ChannelRx ChannelType = "rx"
)

// ParseChannelType validates a channel type string.
func ParseChannelType(s string) (ChannelType, error) {
	switch ChannelType(s) {
	case ChannelTx, ChannelRx:
		return ChannelType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChannelType, s)
	}
}

// NamesCommand returns the query command for this channel type.
func (c ChannelType) NamesCommand() Command {
	if c == ChannelTx {
		return CmdTxChannelNames
	}
	return CmdRxChannelNames
}

// Fixed layout values for mutation commands
const (
	channelPageSize = 16

	// Offsets (within the full frame) at which names start
	rxChannelNameOffset    = 0x1c
	txChannelNameOffset    = 0x24
	subscriptionNameOffset = 0x5c

	subscriptionDeviceBase = 93
	subscriptionPadding    = 74
	clearSubscriptionLen   = 77
)

// DefaultArgs is the argument block sent with queries that take no parameters.
func DefaultArgs() []byte {
	return []byte{0x00, 0x00}
}

// ChannelNamePages returns the starting channel numbers of the name queries
// needed to cover count channels. Rx pages step by 16. Tx pages step by 32:
// each tx query starts a page of 16 and the walk then skips a further 16.
func ChannelNamePages(kind ChannelType, count int) []uint16 {
	stride := channelPageSize
	if kind == ChannelTx {
		stride += channelPageSize
	}

	var pages []uint16
	// Inclusive on purpose: an exclusive bound would send no query for a
	// one-channel device and drop channel 17 of a 17-channel device.
	for start := 1; start <= count; start += stride {
		pages = append(pages, uint16(start))
	}
	return pages
}

// ChannelNamesArgs builds the argument block for a channel-name page query.
//
//	[0-1]   0x0001
//	[2-3]   start channel
//	[4]     0x00
func ChannelNamesArgs(start uint16) []byte {
	args := []byte{0x00, 0x01}
	args = binary.BigEndian.AppendUint16(args, start)
	return append(args, 0x00)
}

// SetChannelNameArgs builds the argument block for renaming a channel.
// An empty name resets the channel to its factory default.
//
// Rx layout (name at frame offset 28):
//
//	[0x04 0x01][channel:2][0x001c][12 zero bytes][name]
//
// Tx layout (name at frame offset 36):
//
//	[0x04 0x01 0x00 0x00][channel:2][0x0024][18 zero bytes][name]
func SetChannelNameArgs(kind ChannelType, channel uint16, name string) ([]byte, Command, error) {
	switch kind {
	case ChannelRx:
		args := []byte{0x04, 0x01}
		args = binary.BigEndian.AppendUint16(args, channel)
		args = binary.BigEndian.AppendUint16(args, rxChannelNameOffset)
		args = append(args, make([]byte, 12)...)
		args = append(args, name...)
		return args, CmdSetRxChannelName, nil
	case ChannelTx:
		args := []byte{0x04, 0x01, 0x00, 0x00}
		args = binary.BigEndian.AppendUint16(args, channel)
		args = binary.BigEndian.AppendUint16(args, txChannelNameOffset)
		args = append(args, make([]byte, 18)...)
		args = append(args, name...)
		return args, CmdSetTxChannelName, nil
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidChannelType, string(kind))
	}
}

// SetDeviceNameArgs builds the argument block for renaming a device. An
// empty name resets the device name, which sends the default argument block.
func SetDeviceNameArgs(name string) []byte {
	if name == "" {
		return DefaultArgs()
	}
	return []byte(name)
}

// SubscriptionArgs builds the argument block that subscribes an rx channel
// to a tx channel on a source device.
//
//	[0x04 0x01][rx channel:2][0x005c][93+len(txChannel):2][74 zero bytes]
//	[txChannel][0x00][txDevice]
//
// 0x5c is the frame offset of the tx channel name and 93+len(txChannel) the
// frame offset of the tx device name.
func SubscriptionArgs(rxChannel uint16, txChannel, txDevice string) []byte {
	args := []byte{0x04, 0x01}
	args = binary.BigEndian.AppendUint16(args, rxChannel)
	args = binary.BigEndian.AppendUint16(args, subscriptionNameOffset)
	args = binary.BigEndian.AppendUint16(args, uint16(subscriptionDeviceBase+len(txChannel)))
	args = append(args, make([]byte, subscriptionPadding)...)
	args = append(args, txChannel...)
	args = append(args, 0x00)
	return append(args, txDevice...)
}

// ClearSubscriptionArgs builds the argument block that removes an rx
// channel's subscription: the channel address followed by 77 zero bytes.
func ClearSubscriptionArgs(rxChannel uint16) []byte {
	args := []byte{0x04, 0x01}
	args = binary.BigEndian.AppendUint16(args, rxChannel)
	return append(args, make([]byte, clearSubscriptionLen)...)
}
