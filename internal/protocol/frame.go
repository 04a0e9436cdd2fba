package protocol

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Frame constants
const (
	Magic     = 0x27
	FrameTag  = 0x29
	HeaderLen = 10 // Magic + tag + length + transaction + command + reserved

	// MaxFrameLen is the largest frame the 16-bit length field can describe.
	MaxFrameLen = 0xFFFF

	// ControlPort is the device-side control port. It is only ever used as a
	// destination; the client binds an ephemeral local port.
	ControlPort = 4440
)

// Command is a 16-bit command identifier.
type Command uint16

// Command identifiers
const (
	CmdChannelCount     Command = 0x1000
	CmdSetDeviceName    Command = 0x1001
	CmdDeviceName       Command = 0x1002
	CmdDeviceInfo       Command = 0x1003
	CmdTxChannelNames   Command = 0x2000
	CmdSetTxChannelName Command = 0x2013
	CmdRxChannelNames   Command = 0x3000
	CmdSetRxChannelName Command = 0x3001
	CmdSubscription     Command = 0x3010
)

// String returns the command name used in logs and metrics
func (c Command) String() string {
	switch c {
	case CmdChannelCount:
		return "channelCount"
	case CmdSetDeviceName:
		return "setDeviceName"
	case CmdDeviceName:
		return "deviceName"
	case CmdDeviceInfo:
		return "deviceInfo"
	case CmdTxChannelNames:
		return "txChannelNames"
	case CmdSetTxChannelName:
		return "setTxChannelName"
	case CmdRxChannelNames:
		return "rxChannelNames"
	case CmdSetRxChannelName:
		return "setRxChannelName"
	case CmdSubscription:
		return "subscription"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(c))
	}
}

// Frame is a decoded control frame.
type Frame struct {
	TransactionID uint16
	Command       Command
	Args          []byte // Bytes between the header and the trailing byte
	Raw           []byte // Complete frame; reply offsets are relative to this
}

// String returns a debug representation of the frame
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{cmd=%s, txid=0x%04x, len=%d}", f.Command, f.TransactionID, len(f.Raw))
}

// NewTransactionID returns a random transaction ID. Replies are not
// correlated by it; it only has to look like what devices expect.
func NewTransactionID() uint16 {
	return uint16(rand.IntN(65535))
}

// Encode builds a command frame.
//
// Frame Structure:
//
//	[0x27][0x29][length:2][transaction:2][command:2][0x0000][args...][0x00]
//
// The length is computed up front from the parts; a mismatch with the
// assembled frame is a bug in this function and panics.
func Encode(cmd Command, transactionID uint16, args []byte) ([]byte, error) {
	total := HeaderLen + len(args) + 1
	if total > MaxFrameLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFrameTooLarge, total, MaxFrameLen)
	}

	frame := make([]byte, 0, total)
	frame = append(frame, Magic, FrameTag)
	frame = binary.BigEndian.AppendUint16(frame, uint16(total))
	frame = binary.BigEndian.AppendUint16(frame, transactionID)
	frame = binary.BigEndian.AppendUint16(frame, uint16(cmd))
	frame = append(frame, 0x00, 0x00)
	frame = append(frame, args...)
	frame = append(frame, 0x00)

	if len(frame) != total {
		panic(fmt.Sprintf("protocol: encoded %d bytes but header declares %d", len(frame), total))
	}
	return frame, nil
}

// Decode validates a received datagram and extracts its command.
// observedLength is the datagram size reported by the socket. Frames with
// the wrong magic, wrong tag, or a length field that disagrees with the
// observed size are rejected by returning false.
func Decode(datagram []byte, observedLength int) (*Frame, bool) {
	if len(datagram) < HeaderLen || observedLength != len(datagram) {
		return nil, false
	}
	if datagram[0] != Magic || datagram[1] != FrameTag {
		return nil, false
	}
	if int(binary.BigEndian.Uint16(datagram[2:4])) != observedLength {
		return nil, false
	}

	frame := &Frame{
		TransactionID: binary.BigEndian.Uint16(datagram[4:6]),
		Command:       Command(binary.BigEndian.Uint16(datagram[6:8])),
		Raw:           datagram,
	}
	if len(datagram) > HeaderLen {
		frame.Args = datagram[HeaderLen : len(datagram)-1]
	}
	return frame, true
}
