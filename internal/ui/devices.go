package ui

import (
	"fmt"
	"strings"

	"github.com/muurk/netaudio/internal/dante"
	"github.com/muurk/netaudio/internal/device"
)

// RenderDevice renders a device with every known channel.
//
//	Stage  10.0.0.5
//	  2 tx, 1 rx
//	  Tx
//	    1  Out 1
//	  Rx
//	    1  In 1   ● active   Out 1@Desk
func RenderDevice(d device.Device) string {
	var b strings.Builder

	b.WriteString(DeviceNameStyle.Render(d.DisplayName()))
	b.WriteString("  ")
	b.WriteString(DeviceAddressStyle.Render(d.Address))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d tx, %d rx\n", d.ChannelCount.Tx, d.ChannelCount.Rx)

	if len(d.Channels.Tx) > 0 {
		b.WriteString("  " + SectionTitleStyle.Render("Tx") + "\n")
		for i, name := range d.Channels.Tx {
			fmt.Fprintf(&b, "    %-3d %s\n", i+1, name)
		}
	}

	if len(d.Channels.Rx) > 0 {
		nameWidth := 0
		for _, ch := range d.Channels.Rx {
			nameWidth = max(nameWidth, len(ch.Name))
		}

		b.WriteString("  " + SectionTitleStyle.Render("Rx") + "\n")
		for i, ch := range d.Channels.Rx {
			fmt.Fprintf(&b, "    %-3d %-*s  %s", i+1, nameWidth, ch.Name, RenderStatus(ch.Status))
			if source := SubscriptionSource(ch); source != "" {
				b.WriteString("  " + source)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderDeviceCompact renders a device on one line
func RenderDeviceCompact(d device.Device) string {
	active := 0
	for _, ch := range d.Channels.Rx {
		if ch.Status.IsActive() {
			active++
		}
	}
	return fmt.Sprintf("%-15s %-24s tx=%-3d rx=%-3d subscribed=%d",
		d.Address, d.DisplayName(), d.ChannelCount.Tx, d.ChannelCount.Rx, active)
}

// RenderStatus renders a status with its marker and color
func RenderStatus(s device.Status) string {
	marker := IdleMarker
	if s.IsActive() {
		marker = ActiveMarker
	}
	return StatusStyle(s).Render(marker + " " + s.String())
}

// SubscriptionSource formats an rx channel's source as channel@device, or
// "" when it has none.
func SubscriptionSource(ch device.RxChannel) string {
	if ch.TxChannel == "" && ch.TxDevice == "" {
		return ""
	}
	return ch.TxChannel + "@" + ch.TxDevice
}

// FormatEvent renders an event as one plain line for non-interactive output
func FormatEvent(ev dante.Event) string {
	return fmt.Sprintf("%-18s %-15s %-24s changed=%t",
		ev.Name, ev.Device.Address, ev.Device.DisplayName(), ev.Changed)
}
