package discovery

import (
	"context"
	"strings"
)

// ServiceTypes are the service types devices advertise.
var ServiceTypes = []string{
	"_netaudio-cmc._udp",
	"_netaudio-dbc._udp",
	"_netaudio-arc._udp",
	"_netaudio-chan._udp",
}

const (
	// DefaultQuery is the PTR name queried at startup.
	DefaultQuery = "_netaudio-arc._udp.local"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	subtypeMarker = "_sub"
)

// Answer is one resource record from a discovery response. Names carry no
// trailing dot.
type Answer struct {
	Name string
	Type string // "PTR", "SRV", "TXT", "A", ...
	Data string
}

// Response is every answer carried by one datagram from one responder.
type Response struct {
	Address string
	Answers []Answer
}

// Discoverer issues a discovery query and delivers responses to out until
// ctx is done. Discover blocks; it returns nil on cancellation.
type Discoverer interface {
	Discover(ctx context.Context, out chan<- Response) error
}

// Advertisement is an answer recognized as a device service record.
type Advertisement struct {
	Address string
	Service string // Matched service type
	Name    string // Advertised device name
	Data    string // Raw PTR data
}

// Match reports whether a is a device PTR record: its name contains one of
// ServiceTypes and it is not a subtype record.
func Match(address string, a Answer) (Advertisement, bool) {
	if a.Type != "PTR" || strings.Contains(a.Name, subtypeMarker) {
		return Advertisement{}, false
	}

	for _, service := range ServiceTypes {
		if strings.Contains(a.Name, service) {
			return Advertisement{
				Address: address,
				Service: service,
				Name:    AdvertisedName(a),
				Data:    a.Data,
			}, true
		}
	}
	return Advertisement{}, false
}

// AdvertisedName extracts the device name from a PTR answer by removing
// the first "."+name from its data. "MyDevice._netaudio-arc._udp.local"
// under "_netaudio-arc._udp.local" yields "MyDevice".
func AdvertisedName(a Answer) string {
	return strings.Replace(a.Data, "."+a.Name, "", 1)
}
