// Package transport provides the UDP sockets used by the netaudio client.
//
// Two kinds of socket are opened:
//
//   - The control socket is bound to an OS-assigned ephemeral port. Commands
//     are sent from it to each device's control port and replies arrive on it.
//     The device control port itself is never bound locally.
//   - Multicast listener sockets are bound to fixed ports with address reuse
//     enabled and join one or more IPv4 multicast groups on the selected
//     interface. Device change notifications and mDNS traffic use these.
//
// Everything the client needs from a socket is captured by Conn, which
// net.PacketConn satisfies. transporttest.MemConn is an in-memory Conn for
// tests.
package transport
