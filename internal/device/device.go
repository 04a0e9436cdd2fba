package device

import (
	"fmt"
)

// ChannelCount holds the number of transmit and receive channels a device reports.
type ChannelCount struct {
	Tx int `json:"tx" yaml:"tx"`
	Rx int `json:"rx" yaml:"rx"`
}

// RxChannel is one receive channel and the source it is subscribed to.
type RxChannel struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	TxDevice  string `json:"txDevice"`
	TxChannel string `json:"txChannel"`
}

// Channels holds channel names indexed by (channel number - 1).
type Channels struct {
	Tx []string    `json:"tx"`
	Rx []RxChannel `json:"rx"`
}

// Device is the cached state of one remote device, keyed by its network address.
type Device struct {
	Address      string       `json:"address"`
	Name         string       `json:"name"`
	ChannelCount ChannelCount `json:"channelCount"`
	Channels     Channels     `json:"channels"`
}

// New returns an empty record for the device at address.
func New(address string) *Device {
	return &Device{
		Address:  address,
		Channels: Channels{Tx: []string{}, Rx: []RxChannel{}},
	}
}

// Clone returns a deep copy of the device.
func (d *Device) Clone() Device {
	c := *d
	c.Channels.Tx = append([]string{}, d.Channels.Tx...)
	c.Channels.Rx = append([]RxChannel{}, d.Channels.Rx...)
	return c
}

// SetTxChannel stores the name of the tx channel at the 0-based index,
// growing the slice as needed. It reports whether the stored value changed.
func (d *Device) SetTxChannel(index int, name string) bool {
	if index < 0 {
		return false
	}
	for len(d.Channels.Tx) <= index {
		d.Channels.Tx = append(d.Channels.Tx, "")
	}
	if d.Channels.Tx[index] == name {
		return false
	}
	d.Channels.Tx[index] = name
	return true
}

// SetRxChannel stores the rx channel at the 0-based index, growing the
// slice as needed. It reports whether the stored value changed.
func (d *Device) SetRxChannel(index int, ch RxChannel) bool {
	if index < 0 {
		return false
	}
	for len(d.Channels.Rx) <= index {
		d.Channels.Rx = append(d.Channels.Rx, RxChannel{})
	}
	if d.Channels.Rx[index] == ch {
		return false
	}
	d.Channels.Rx[index] = ch
	return true
}

// DisplayName returns the device name, or its address before the first
// device-info reply has arrived.
func (d *Device) DisplayName() string {
	if d.Name == "" {
		return d.Address
	}
	return d.Name
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Device %q at %s (tx=%d, rx=%d)", d.Name, d.Address, d.ChannelCount.Tx, d.ChannelCount.Rx)
}
