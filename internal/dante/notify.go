package dante

import (
	"net"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/metrics"
	"github.com/muurk/netaudio/internal/protocol"
	"github.com/muurk/netaudio/internal/transport"
)

// handleNotification re-queries whatever a device reports as changed. The
// notification itself never mutates the record.
func (c *Client) handleNotification(data []byte, from net.Addr) {
	n, ok := protocol.DecodeNotification(data, len(data))
	if !ok {
		c.metrics.RecordFrameDropped(metrics.DropBadNotification)
		return
	}

	address := transport.HostOf(from)
	if _, known := c.registry.FindByAddress(address); !known {
		c.metrics.RecordFrameDropped(metrics.DropUnknownSender)
		return
	}
	c.metrics.RecordNotification(n.String())

	logging.Debug("Notification",
		zap.String("remote_addr", address),
		zap.Stringer("notification", n),
	)

	switch n {
	case protocol.NotifyTxChannelsChanged:
		_, err := c.GetChannelNames(address, protocol.ChannelTx)
		c.sendAsync(address, err)
	case protocol.NotifyRxChannelsChanged:
		_, err := c.GetChannelNames(address, protocol.ChannelRx)
		c.sendAsync(address, err)
	case protocol.NotifyDeviceInfoChanged:
		c.sendAsync(address, c.GetDeviceInfo(address))
	}
}
