// Package dante is the netaudio control client.
//
// A Client keeps a registry of devices found by discovery and keeps it in
// step with the devices themselves:
//
//  1. Discovery responses create device records. Each new device is asked
//     for its info and channel count; the first channel-count reply then
//     triggers tx and rx channel-name queries.
//  2. Replies arriving on the control socket are decoded and projected onto
//     the sender's record, after which a named event is published.
//  3. Change notifications heard on the multicast listeners trigger a
//     re-query of whatever the device reports as changed.
//
// All three inputs are funneled through a single dispatch goroutine started
// by Run, so registry mutation and event emission for a device happen as
// one step and subscribers observe them in order.
//
// # Commands
//
// Command methods are fire-and-forget. They return once the frame is sent;
// the effect shows up later as an event, if the device replies. Replies are
// matched to devices by sender address only.
//
// # Limitations
//
// Devices are never removed from the registry, and a lost reply leaves the
// record stale until the next reply of the same kind.
//
// # Thread Safety
//
// Command methods, Devices, Subscribe and SetDebug are safe for concurrent
// use. Event handlers run on the dispatch goroutine and must not block.
package dante
