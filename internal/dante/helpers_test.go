package dante

import (
	"encoding/binary"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muurk/netaudio/internal/discovery"
	"github.com/muurk/netaudio/internal/protocol"
	"github.com/muurk/netaudio/internal/transport/transporttest"
)

const deviceIP = "10.0.0.5"

var deviceAddr = &net.UDPAddr{IP: net.ParseIP(deviceIP), Port: protocol.ControlPort}

type harness struct {
	client  *Client
	control *transporttest.MemConn

	mu     sync.Mutex
	events []Event
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	control := transporttest.NewMemConn(&net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50123})
	h := &harness{control: control}
	h.client = New(control, opts...)
	h.client.Subscribe(func(ev Event) {
		h.mu.Lock()
		h.events = append(h.events, ev)
		h.mu.Unlock()
	})
	t.Cleanup(func() { h.client.Close() })
	return h
}

func (h *harness) recorded() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events...)
}

func (h *harness) eventNames() []EventName {
	var names []EventName
	for _, ev := range h.recorded() {
		names = append(names, ev.Name)
	}
	return names
}

// sentFrames decodes every frame written to the control socket.
func (h *harness) sentFrames(t *testing.T) []*protocol.Frame {
	t.Helper()

	var frames []*protocol.Frame
	for _, d := range h.control.Sent() {
		f, ok := protocol.Decode(d.Data, len(d.Data))
		require.True(t, ok, "client sent an undecodable frame: % x", d.Data)
		frames = append(frames, f)
	}
	return frames
}

func (h *harness) sentCommands(t *testing.T) []protocol.Command {
	t.Helper()

	var cmds []protocol.Command
	for _, f := range h.sentFrames(t) {
		cmds = append(cmds, f.Command)
	}
	return cmds
}

// discover registers deviceIP through a discovery response and forgets the
// resulting traffic and events.
func (h *harness) discover(t *testing.T) {
	t.Helper()
	h.client.handleDiscovery(arcResponse(deviceIP, "MyDevice"))
	h.control.Reset()
	h.clearEvents()
}

func (h *harness) clearEvents() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

// nameDevice feeds a device-info reply from deviceIP.
func (h *harness) nameDevice(t *testing.T, name string) {
	t.Helper()
	h.client.handleReply(deviceInfoReply(name), deviceAddr)
	d, ok := h.client.Device(deviceIP)
	require.True(t, ok)
	require.Equal(t, name, d.Name)
}

func arcAnswer(name string) discovery.Answer {
	return discovery.Answer{
		Name: "_netaudio-arc._udp.local",
		Type: "PTR",
		Data: name + "._netaudio-arc._udp.local",
	}
}

func arcResponse(address, name string) discovery.Response {
	return discovery.Response{Address: address, Answers: []discovery.Answer{arcAnswer(name)}}
}

// reply finalizes the header of a frame whose first 10 bytes are reserved.
func reply(cmd protocol.Command, frame []byte) []byte {
	frame[0] = protocol.Magic
	frame[1] = protocol.FrameTag
	binary.BigEndian.PutUint16(frame[2:4], uint16(len(frame)))
	binary.BigEndian.PutUint16(frame[4:6], 0x0042)
	binary.BigEndian.PutUint16(frame[6:8], uint16(cmd))
	return frame
}

func channelCountReply(tx, rx int) []byte {
	frame := make([]byte, 16)
	binary.BigEndian.PutUint16(frame[12:], uint16(tx))
	binary.BigEndian.PutUint16(frame[14:], uint16(rx))
	return reply(protocol.CmdChannelCount, frame)
}

func deviceInfoReply(name string) []byte {
	frame := make([]byte, 16)
	frame = append(frame, 0x10, 0x04)
	field := make([]byte, 40)
	copy(field, name)
	frame = append(frame, field...)
	return reply(protocol.CmdDeviceInfo, frame)
}

func rxNamesReply(channel int, name, txChannel, txDevice string, status uint16) []byte {
	frame := make([]byte, 12+20)
	frame[10] = 1
	entry := frame[12:32]
	binary.BigEndian.PutUint16(entry[0:], uint16(channel))
	entry[13] = 1
	binary.BigEndian.PutUint16(entry[14:], status)

	put := func(fieldOffset int, s string) {
		binary.BigEndian.PutUint16(frame[12+fieldOffset:], uint16(len(frame)))
		frame = append(frame, s...)
		frame = append(frame, 0)
	}
	put(6, txChannel)
	put(8, txDevice)
	put(10, name)
	return reply(protocol.CmdRxChannelNames, frame)
}

func notification(id uint16) []byte {
	b := make([]byte, 32)
	b[0], b[1] = 0xFF, 0xFF
	binary.BigEndian.PutUint16(b[2:], uint16(len(b)))
	binary.BigEndian.PutUint16(b[26:], id)
	return b
}
