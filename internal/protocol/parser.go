package protocol

import (
	"bytes"
	"encoding/binary"

	"github.com/muurk/netaudio/internal/device"
)

// Reply layout constants. Offsets are from the start of the frame.
const (
	deviceInfoNameWindow = 38

	channelCountTxOffset = 12
	channelCountRxOffset = 14

	txNamesCountOffset = 11
	txNamesEntryStart  = 12
	txNamesEntryLen    = 8

	rxNamesCountOffset = 10
	rxNamesEntryStart  = 12
	rxNamesEntryLen    = 20
)

// deviceInfoMarker precedes the device name in a device-info reply.
var deviceInfoMarker = []byte{0x10, 0x04}

// Rx channel status codes as reported in rx-channel-names replies
const (
	rxStatusInactive      = 0
	rxStatusUnresolved    = 1
	rxStatusActive        = 9
	rxStatusInvalidFormat = 16
	rxStatusNoFlows       = 18
)

// uint16At reads a big-endian uint16, reporting false when it would run
// past the end of b.
func uint16At(b []byte, offset int) (int, bool) {
	if offset < 0 || offset+2 > len(b) {
		return 0, false
	}
	return int(binary.BigEndian.Uint16(b[offset : offset+2])), true
}

// ReadString returns the null-terminated string starting at offset. The end
// of the buffer is treated as a terminator; an offset past the end yields "".
func ReadString(b []byte, offset int) string {
	if offset < 0 || offset >= len(b) {
		return ""
	}
	s := b[offset:]
	if end := bytes.IndexByte(s, 0); end >= 0 {
		s = s[:end]
	}
	return string(s)
}

// ParseDeviceInfo extracts the device name from a device-info reply.
// The name follows the 0x10 0x04 marker and is null padded inside a
// 38-byte window; a window without any null yields an empty name.
// Reports whether the stored name changed.
func ParseDeviceInfo(reply []byte, d *device.Device) bool {
	idx := bytes.Index(reply, deviceInfoMarker)
	if idx < 0 {
		return false
	}

	start := idx + len(deviceInfoMarker)
	end := min(start+deviceInfoNameWindow, len(reply))
	window := reply[start:end]

	// Cut any trailing garbage after the last null, then drop embedded nulls.
	// A window with no null at all holds no terminated name.
	last := bytes.LastIndexByte(window, 0)
	if last < 0 {
		last = 0
	}
	window = window[:last]
	name := string(bytes.ReplaceAll(window, []byte{0}, nil))

	if d.Name == name {
		return false
	}
	d.Name = name
	return true
}

// ParseChannelCount reads the tx and rx channel counts. Reports whether
// either count changed.
func ParseChannelCount(reply []byte, d *device.Device) bool {
	tx, okTx := uint16At(reply, channelCountTxOffset)
	rx, okRx := uint16At(reply, channelCountRxOffset)
	if !okTx || !okRx {
		return false
	}

	if d.ChannelCount.Tx == tx && d.ChannelCount.Rx == rx {
		return false
	}
	d.ChannelCount = device.ChannelCount{Tx: tx, Rx: rx}
	return true
}

// ParseTxChannelNames stores the tx channel names in a reply.
//
// Entry Structure (8 bytes each, starting at offset 12, count at offset 11):
//
//	[0-1]   channel        1-based channel number
//	[6-7]   name offset    Offset of the null-terminated name in the frame
//
// Reports whether any stored name changed.
func ParseTxChannelNames(reply []byte, d *device.Device) bool {
	if len(reply) <= txNamesCountOffset {
		return false
	}

	changed := false
	count := int(reply[txNamesCountOffset])
	for i := 0; i < count; i++ {
		entry := txNamesEntryStart + i*txNamesEntryLen
		channel, ok := uint16At(reply, entry)
		if !ok {
			break
		}
		nameOffset, ok := uint16At(reply, entry+6)
		if !ok {
			break
		}
		if d.SetTxChannel(channel-1, ReadString(reply, nameOffset)) {
			changed = true
		}
	}
	return changed
}

// ParseRxChannelNames stores the rx channels and their subscriptions.
//
// Entry Structure (20 bytes each, starting at offset 12, count at offset 10):
//
//	[0-1]   channel            1-based channel number
//	[6-7]   tx channel offset  Subscribed source channel name
//	[8-9]   tx device offset   Subscribed source device name
//	[10-11] name offset        This channel's own name
//	[13]    audio subtype      0 = flow without audio
//	[14-15] status             Subscription status code
//
// Source names are only read for active subscriptions; every other status
// clears them. Reports whether any stored channel changed.
func ParseRxChannelNames(reply []byte, d *device.Device) bool {
	if len(reply) <= rxNamesCountOffset {
		return false
	}

	changed := false
	count := int(reply[rxNamesCountOffset])
	for i := 0; i < count; i++ {
		entry := rxNamesEntryStart + i*rxNamesEntryLen
		if entry+rxNamesEntryLen > len(reply) {
			break
		}
		fields := reply[entry : entry+rxNamesEntryLen]

		channel, _ := uint16At(fields, 0)
		code, _ := uint16At(fields, 14)
		nameOffset, _ := uint16At(fields, 10)

		ch := device.RxChannel{
			Name:   ReadString(reply, nameOffset),
			Status: rxStatus(code, fields[13]),
		}
		if ch.Status.IsActive() {
			txChannelOffset, _ := uint16At(fields, 6)
			txDeviceOffset, _ := uint16At(fields, 8)
			ch.TxChannel = ReadString(reply, txChannelOffset)
			ch.TxDevice = ReadString(reply, txDeviceOffset)
		}

		if d.SetRxChannel(channel-1, ch) {
			changed = true
		}
	}
	return changed
}

// rxStatus maps a status code and audio subtype byte to a Status. Unknown
// codes map to inactive.
func rxStatus(code int, subtype byte) device.Status {
	switch code {
	case rxStatusUnresolved:
		return device.Unresolved()
	case rxStatusActive:
		if subtype == 0 {
			return device.Active(device.AudioNone)
		}
		return device.Active(device.AudioNormal)
	case rxStatusInvalidFormat:
		return device.InvalidFormat()
	case rxStatusNoFlows:
		return device.NoFlows()
	default:
		return device.Inactive()
	}
}
