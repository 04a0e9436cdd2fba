package protocol

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/muurk/netaudio/internal/device"
)

func TestReadString(t *testing.T) {
	buf := []byte("abc\x00def")

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"terminated", 0, "abc"},
		{"middle of string", 1, "bc"},
		{"at terminator", 3, ""},
		{"unterminated tail", 4, "def"},
		{"past end", 20, ""},
		{"negative", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadString(buf, tt.offset); got != tt.want {
				t.Errorf("ReadString(%d) = %q, want %q", tt.offset, got, tt.want)
			}
		})
	}
}

func TestParseDeviceInfo(t *testing.T) {
	tests := []struct {
		name    string
		reply   []byte
		initial string
		want    string
		changed bool
	}{
		{
			name:    "padded name",
			reply:   buildDeviceInfoReply("MyDevice"),
			want:    "MyDevice",
			changed: true,
		},
		{
			name:    "unchanged name",
			reply:   buildDeviceInfoReply("MyDevice"),
			initial: "MyDevice",
			want:    "MyDevice",
			changed: false,
		},
		{
			name:    "no marker",
			reply:   buildChannelCountReply(2, 2),
			initial: "Keep",
			want:    "Keep",
			changed: false,
		},
		{
			name: "window truncated by end of frame",
			reply: func() []byte {
				b := finishReply(make([]byte, HeaderLen), CmdDeviceInfo)
				b = append(b, deviceInfoMarker...)
				return append(b, "Short\x00"...)
			}(),
			want:    "Short",
			changed: true,
		},
		{
			name: "garbage after last null",
			reply: func() []byte {
				b := finishReply(make([]byte, HeaderLen), CmdDeviceInfo)
				b = append(b, deviceInfoMarker...)
				return append(b, "Name\x00\x00xyz"...)
			}(),
			want:    "Name",
			changed: true,
		},
		{
			name: "no null in window",
			reply: func() []byte {
				b := finishReply(make([]byte, HeaderLen), CmdDeviceInfo)
				b = append(b, deviceInfoMarker...)
				return append(b, bytes.Repeat([]byte{'A'}, deviceInfoNameWindow+2)...)
			}(),
			initial: "Old",
			want:    "",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := device.New("10.0.0.5")
			d.Name = tt.initial

			changed := ParseDeviceInfo(tt.reply, d)
			if changed != tt.changed {
				t.Errorf("ParseDeviceInfo() changed = %v, want %v", changed, tt.changed)
			}
			if d.Name != tt.want {
				t.Errorf("Name = %q, want %q", d.Name, tt.want)
			}
		})
	}
}

func TestParseChannelCount(t *testing.T) {
	d := device.New("10.0.0.5")

	if !ParseChannelCount(buildChannelCountReply(2, 4), d) {
		t.Error("first ParseChannelCount() changed = false, want true")
	}
	if d.ChannelCount.Tx != 2 || d.ChannelCount.Rx != 4 {
		t.Errorf("ChannelCount = %+v, want {Tx:2 Rx:4}", d.ChannelCount)
	}
	if ParseChannelCount(buildChannelCountReply(2, 4), d) {
		t.Error("repeat ParseChannelCount() changed = true, want false")
	}
	if !ParseChannelCount(buildChannelCountReply(2, 8), d) {
		t.Error("ParseChannelCount() with new rx count changed = false, want true")
	}

	short := finishReply(make([]byte, 13), CmdChannelCount)
	if ParseChannelCount(short, d) {
		t.Error("ParseChannelCount() on a short frame changed = true, want false")
	}
}

func TestParseTxChannelNames(t *testing.T) {
	var entries []txEntry
	for i := 1; i <= 8; i++ {
		entries = append(entries, txEntry{channel: i, name: fmt.Sprintf("Out %d", i)})
	}
	reply := buildTxNamesReply(entries)

	d := device.New("10.0.0.5")
	if !ParseTxChannelNames(reply, d) {
		t.Fatal("ParseTxChannelNames() changed = false, want true")
	}
	if len(d.Channels.Tx) != len(entries) {
		t.Fatalf("len(Tx) = %d, want %d", len(d.Channels.Tx), len(entries))
	}
	for i, e := range entries {
		if d.Channels.Tx[i] != e.name {
			t.Errorf("Tx[%d] = %q, want %q", i, d.Channels.Tx[i], e.name)
		}
	}

	if ParseTxChannelNames(reply, d) {
		t.Error("second ParseTxChannelNames() changed = true, want false")
	}
}

func TestParseTxChannelNames_Sparse(t *testing.T) {
	reply := buildTxNamesReply([]txEntry{{channel: 17, name: "Page Two"}})

	d := device.New("10.0.0.5")
	ParseTxChannelNames(reply, d)

	if len(d.Channels.Tx) != 17 {
		t.Fatalf("len(Tx) = %d, want 17", len(d.Channels.Tx))
	}
	if d.Channels.Tx[16] != "Page Two" {
		t.Errorf("Tx[16] = %q, want %q", d.Channels.Tx[16], "Page Two")
	}
	if d.Channels.Tx[0] != "" {
		t.Errorf("Tx[0] = %q, want empty", d.Channels.Tx[0])
	}
}

func TestParseTxChannelNames_CountExceedsFrame(t *testing.T) {
	reply := buildTxNamesReply([]txEntry{{channel: 1, name: "Only"}})
	reply[txNamesCountOffset] = 10

	d := device.New("10.0.0.5")
	ParseTxChannelNames(reply, d)

	if len(d.Channels.Tx) == 0 || d.Channels.Tx[0] != "Only" {
		t.Errorf("Tx = %q, want first entry %q", d.Channels.Tx, "Only")
	}
}

func TestParseRxChannelNames(t *testing.T) {
	tests := []struct {
		name   string
		entry  rxEntry
		want   device.RxChannel
		status string
	}{
		{
			name:  "active with audio",
			entry: rxEntry{channel: 1, name: "In 1", txChannel: "Left", txDevice: "Desk", subtype: 1, status: 9},
			want: device.RxChannel{
				Name: "In 1", Status: device.Active(device.AudioNormal), TxChannel: "Left", TxDevice: "Desk",
			},
			status: "active",
		},
		{
			name:  "active without audio",
			entry: rxEntry{channel: 1, name: "In 1", txChannel: "Left", txDevice: "Desk", subtype: 0, status: 9},
			want: device.RxChannel{
				Name: "In 1", Status: device.Active(device.AudioNone), TxChannel: "Left", TxDevice: "Desk",
			},
			status: "no audio",
		},
		{
			name:   "inactive clears source",
			entry:  rxEntry{channel: 1, name: "In 1", txChannel: "Stale", txDevice: "Old", status: 0},
			want:   device.RxChannel{Name: "In 1", Status: device.Inactive()},
			status: "inactive",
		},
		{
			name:   "unresolved clears source",
			entry:  rxEntry{channel: 1, name: "In 1", txChannel: "Left", txDevice: "Gone", status: 1},
			want:   device.RxChannel{Name: "In 1", Status: device.Unresolved()},
			status: "unresolved",
		},
		{
			name:   "incorrect format",
			entry:  rxEntry{channel: 1, name: "In 1", status: 16},
			want:   device.RxChannel{Name: "In 1", Status: device.InvalidFormat()},
			status: "incorrect channel format",
		},
		{
			name:   "no flows",
			entry:  rxEntry{channel: 1, name: "In 1", status: 18},
			want:   device.RxChannel{Name: "In 1", Status: device.NoFlows()},
			status: "no flows",
		},
		{
			name:   "unknown code",
			entry:  rxEntry{channel: 1, name: "In 1", txChannel: "Left", txDevice: "Desk", status: 42},
			want:   device.RxChannel{Name: "In 1", Status: device.Inactive()},
			status: "inactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := device.New("10.0.0.5")
			ParseRxChannelNames(buildRxNamesReply([]rxEntry{tt.entry}), d)

			if len(d.Channels.Rx) != 1 {
				t.Fatalf("len(Rx) = %d, want 1", len(d.Channels.Rx))
			}
			got := d.Channels.Rx[0]
			if got != tt.want {
				t.Errorf("Rx[0] = %+v, want %+v", got, tt.want)
			}
			if got.Status.String() != tt.status {
				t.Errorf("Status = %q, want %q", got.Status, tt.status)
			}
		})
	}
}

func TestParseRxChannelNames_Changed(t *testing.T) {
	entries := []rxEntry{
		{channel: 1, name: "In 1", txChannel: "Left", txDevice: "Desk", subtype: 1, status: 9},
		{channel: 2, name: "In 2", status: 0},
	}
	reply := buildRxNamesReply(entries)

	d := device.New("10.0.0.5")
	if !ParseRxChannelNames(reply, d) {
		t.Error("first ParseRxChannelNames() changed = false, want true")
	}
	if ParseRxChannelNames(reply, d) {
		t.Error("second ParseRxChannelNames() changed = true, want false")
	}

	entries[1].status = 1
	if !ParseRxChannelNames(buildRxNamesReply(entries), d) {
		t.Error("ParseRxChannelNames() after status change changed = false, want true")
	}
	if got := d.Channels.Rx[1].Status.String(); got != "unresolved" {
		t.Errorf("Rx[1].Status = %q, want %q", got, "unresolved")
	}
}

func TestApplyReply(t *testing.T) {
	d := device.New("10.0.0.5")

	frame, ok := Decode(buildChannelCountReply(4, 2), 16)
	if !ok {
		t.Fatal("Decode() rejected a channel count reply")
	}
	changed, handled := ApplyReply(frame, d)
	if !handled || !changed {
		t.Errorf("ApplyReply() = (%v, %v), want (true, true)", changed, handled)
	}

	ack, err := Encode(CmdSubscription, 1, DefaultArgs())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	frame, _ = Decode(ack, len(ack))
	if _, handled := ApplyReply(frame, d); handled {
		t.Error("ApplyReply() handled a subscription acknowledgement")
	}
}
