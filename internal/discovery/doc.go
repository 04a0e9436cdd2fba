// Package discovery finds netaudio devices with multicast DNS.
//
// Devices advertise PTR records under four service types. A Discoverer
// issues one PTR query and streams every response it hears as a Response:
// the responder's address plus its answer records reduced to name, type
// and data strings. Two backends are provided:
//
//   - MDNS speaks the wire protocol directly over a caller-supplied socket
//     joined to 224.0.0.251:5353. It reports every answer record as-is.
//   - Zeroconf browses with github.com/grandcat/zeroconf and synthesizes
//     one PTR answer per resolved service instance.
//
// Match and AdvertisedName interpret answers; the decision of what to do
// with a device belongs to the client.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
