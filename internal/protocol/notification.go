package protocol

import (
	"encoding/binary"
	"fmt"
)

// Notification frame constants
const (
	NotificationHeader    = 0xFF
	notificationCmdOffset = 26
	notificationMinLen    = notificationCmdOffset + 2
)

// Notification identifies what changed on a device.
type Notification uint16

// Notification identifiers
const (
	NotifyTxChannelsChanged Notification = 257
	NotifyRxChannelsChanged Notification = 258
	NotifyDeviceInfoChanged Notification = 262
)

// String returns a human-readable notification name
func (n Notification) String() string {
	switch n {
	case NotifyTxChannelsChanged:
		return "txChannelsChanged"
	case NotifyRxChannelsChanged:
		return "rxChannelsChanged"
	case NotifyDeviceInfoChanged:
		return "deviceInfoChanged"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(n))
	}
}

// DecodeNotification validates a multicast notification datagram and
// returns its command ID. The same length convention as control frames
// applies. Unknown command IDs are returned as-is; callers ignore them.
func DecodeNotification(datagram []byte, observedLength int) (Notification, bool) {
	if len(datagram) < notificationMinLen || observedLength != len(datagram) {
		return 0, false
	}
	if datagram[0] != NotificationHeader || datagram[1] != NotificationHeader {
		return 0, false
	}
	if int(binary.BigEndian.Uint16(datagram[2:4])) != observedLength {
		return 0, false
	}
	return Notification(binary.BigEndian.Uint16(datagram[notificationCmdOffset : notificationCmdOffset+2])), true
}
