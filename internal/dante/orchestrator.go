package dante

import (
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/netaudio/internal/discovery"
	"github.com/muurk/netaudio/internal/logging"
)

// handleDiscovery registers devices from a discovery response.
//
// A new device gets device-info and channel-count queries, and its record
// is flagged so the first channel-count reply requests channel names. For
// a known device whose advertised name differs from the stored one, the
// device info is re-queried and the rest of the response is skipped. The
// rest is also skipped after any device record whose data contains "@".
func (c *Client) handleDiscovery(resp discovery.Response) {
	c.metrics.RecordDiscoveryResponse()

	for _, answer := range resp.Answers {
		ad, ok := discovery.Match(resp.Address, answer)
		if !ok {
			continue
		}
		// An "@" record ends the batch; nothing after it is considered.
		if strings.Contains(answer.Data, "@") {
			return
		}

		d, created := c.registry.CreateIfAbsent(resp.Address)
		if created {
			c.metrics.SetDevices(c.registry.Len())
			logging.Info("Device discovered",
				zap.String("address", resp.Address),
				zap.String("advertised_name", ad.Name),
				zap.String("service", ad.Service),
			)
			c.sendAsync(resp.Address, c.GetDeviceInfo(resp.Address))
			_, err := c.GetChannelCount(resp.Address)
			c.sendAsync(resp.Address, err)
		} else if d.Name != ad.Name {
			c.sendAsync(resp.Address, c.GetDeviceInfo(resp.Address))
			c.emit(EventGotDevice, d, false)
			return
		}

		c.emit(EventGotDevice, d, created)
	}
}
