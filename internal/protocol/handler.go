package protocol

import (
	"github.com/muurk/netaudio/internal/device"
)

// ReplyParser projects a reply frame onto a device record, reporting
// whether the record changed.
type ReplyParser func(reply []byte, d *device.Device) bool

// replyParsers maps reply command IDs to their parsers. Commands without a
// parser (acknowledgements of set commands, subscriptions) are ignored.
var replyParsers = map[Command]ReplyParser{
	CmdChannelCount:   ParseChannelCount,
	CmdTxChannelNames: ParseTxChannelNames,
	CmdRxChannelNames: ParseRxChannelNames,
	CmdDeviceInfo:     ParseDeviceInfo,
}

// ParserFor returns the parser for a reply command.
func ParserFor(cmd Command) (ReplyParser, bool) {
	p, ok := replyParsers[cmd]
	return p, ok
}

// ApplyReply runs the parser matching the frame's command against d.
// handled is false when the command has no parser.
func ApplyReply(f *Frame, d *device.Device) (changed bool, handled bool) {
	p, ok := ParserFor(f.Command)
	if !ok {
		return false, false
	}
	return p(f.Raw, d), true
}
