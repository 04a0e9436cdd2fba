package dante

import (
	"sync"

	"github.com/muurk/netaudio/internal/device"
)

// EventName identifies a client event.
type EventName string

// Events published by the client
const (
	EventGotDevice          EventName = "gotDevice"
	EventChannelCountRead   EventName = "channelCountRead"
	EventTxChannelNamesRead EventName = "txChannelNamesRead"
	EventRxChannelNamesRead EventName = "rxChannelNamesRead"
	EventDeviceNameRead     EventName = "deviceNameRead"
)

// EventNames lists every event in a stable order.
var EventNames = []EventName{
	EventGotDevice,
	EventChannelCountRead,
	EventTxChannelNamesRead,
	EventRxChannelNamesRead,
	EventDeviceNameRead,
}

// Event carries a snapshot of the affected device. Changed reports whether
// the triggering reply altered the record; events are published either way.
type Event struct {
	Name    EventName     `json:"event"`
	Device  device.Device `json:"device"`
	Changed bool          `json:"changed"`
}

// Handler receives events on the dispatch goroutine.
type Handler func(Event)

type subscription struct {
	id   int
	name EventName // Empty matches every event
	fn   Handler
}

// eventBus delivers events to handlers in subscription order.
type eventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

func (b *eventBus) add(name EventName, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *eventBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *eventBus) publish(ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.name == "" || s.name == ev.Name {
			s.fn(ev)
		}
	}
}
