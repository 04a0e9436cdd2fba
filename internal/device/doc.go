// Package device holds the client's cached view of networked audio devices.
//
// A Device is created once, the first time discovery sees its address, and
// is then mutated in place by reply parsers for the rest of the process
// lifetime. Devices are never removed: a device that stops answering simply
// keeps its last known state. Absence of refresh is not treated as device
// loss.
//
// # Channel Indexing
//
// Channels are numbered from 1 on the wire and stored 0-based. Channel
// slices only ever grow; a reply that names channel 17 before channel 1 has
// been seen leaves the intervening slots zero-valued until they are filled.
//
// # Thread Safety
//
// Registry is safe for concurrent use. Device values returned from the
// registry are deep copies and may be retained by the caller.
package device
