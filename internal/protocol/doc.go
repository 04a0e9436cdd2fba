// Package protocol implements the binary control protocol spoken by
// networked audio devices on UDP port 4440.
//
// This package handles encoding of command frames, validation and decoding
// of reply frames, decoding of multicast change notifications, and the
// reply parsers that project a decoded reply onto a device record.
//
// # Command Frame Format
//
// Every command and reply has this structure (all integers big-endian):
//
//	[0]     0x27           Magic byte
//	[1]     0x29           Frame tag
//	[2-3]   length         Total frame length in bytes
//	[4-5]   transaction    Random transaction ID
//	[6-7]   command        Command ID (see Command)
//	[8-9]   0x0000         Reserved
//	[10+]   arguments      Command-specific argument bytes
//	[N-1]   0x00           Trailing byte (commands only)
//
// A received frame is only accepted when the magic, the frame tag and the
// declared length all match; anything else is dropped without an error.
//
// # Notification Frame Format
//
// Devices announce local changes on the multicast groups 224.0.0.230-233:
//
//	[0-1]   0xFFFF         Notification header
//	[2-3]   length         Total frame length in bytes
//	[26-27] command        What changed (257 tx names, 258 rx names, 262 device info)
//
// A notification never carries the new value. The client re-queries the
// device over the control channel instead.
//
// # Reply Parsers
//
// Reply offsets are relative to the start of the full frame, including the
// header. String fields are referenced by a 16-bit offset and run to the
// next null byte, or to the end of the frame when no terminator exists.
//
// # Thread Safety
//
// All encoding and parsing functions are stateless and safe for concurrent use.
// Parsers mutate the device they are handed; callers serialize access.
package protocol
