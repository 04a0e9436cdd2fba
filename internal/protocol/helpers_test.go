package protocol

import (
	"encoding/binary"
)

// finishReply fills in the header of a reply buffer whose first HeaderLen
// bytes were reserved.
func finishReply(buf []byte, cmd Command) []byte {
	buf[0] = Magic
	buf[1] = FrameTag
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(buf)))
	binary.BigEndian.PutUint16(buf[4:6], 0xBEEF)
	binary.BigEndian.PutUint16(buf[6:8], uint16(cmd))
	return buf
}

// appendString appends a null-terminated string and returns its offset.
func appendString(buf *[]byte, s string) uint16 {
	offset := uint16(len(*buf))
	*buf = append(*buf, s...)
	*buf = append(*buf, 0x00)
	return offset
}

type txEntry struct {
	channel int
	name    string
}

func buildTxNamesReply(entries []txEntry) []byte {
	buf := make([]byte, txNamesEntryStart+len(entries)*txNamesEntryLen)
	buf[txNamesCountOffset] = byte(len(entries))
	for i, e := range entries {
		entry := txNamesEntryStart + i*txNamesEntryLen
		binary.BigEndian.PutUint16(buf[entry:], uint16(e.channel))
		offset := appendString(&buf, e.name)
		binary.BigEndian.PutUint16(buf[entry+6:], offset)
	}
	return finishReply(buf, CmdTxChannelNames)
}

type rxEntry struct {
	channel   int
	name      string
	txChannel string
	txDevice  string
	subtype   byte
	status    uint16
}

func buildRxNamesReply(entries []rxEntry) []byte {
	buf := make([]byte, rxNamesEntryStart+len(entries)*rxNamesEntryLen)
	buf[rxNamesCountOffset] = byte(len(entries))
	for i, e := range entries {
		entry := rxNamesEntryStart + i*rxNamesEntryLen
		binary.BigEndian.PutUint16(buf[entry:], uint16(e.channel))
		buf[entry+13] = e.subtype
		binary.BigEndian.PutUint16(buf[entry+14:], e.status)

		txChannel := appendString(&buf, e.txChannel)
		binary.BigEndian.PutUint16(buf[entry+6:], txChannel)
		txDevice := appendString(&buf, e.txDevice)
		binary.BigEndian.PutUint16(buf[entry+8:], txDevice)
		name := appendString(&buf, e.name)
		binary.BigEndian.PutUint16(buf[entry+10:], name)
	}
	return finishReply(buf, CmdRxChannelNames)
}

func buildChannelCountReply(tx, rx int) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint16(buf[channelCountTxOffset:], uint16(tx))
	binary.BigEndian.PutUint16(buf[channelCountRxOffset:], uint16(rx))
	return finishReply(buf, CmdChannelCount)
}

func buildDeviceInfoReply(name string) []byte {
	buf := make([]byte, HeaderLen+6)
	buf = append(buf, deviceInfoMarker...)
	field := make([]byte, 32)
	copy(field, name)
	buf = append(buf, field...)
	buf = append(buf, make([]byte, 12)...)
	return finishReply(buf, CmdDeviceInfo)
}
