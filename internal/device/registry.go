package device

import (
	"sync"
)

// entry pairs a device with the discovery pipeline stage it is waiting on.
type entry struct {
	device *Device

	// awaitingChannelNames is set when the device is first discovered and
	// cleared by the first channel-count reply, which triggers the
	// tx/rx channel-name queries.
	awaitingChannelNames bool
}

// Registry maps device addresses to device records. It is the sole owner
// of device state: callers only ever see copies.
//
// Records are never removed. A device that disappears from the network
// keeps its last known state for the life of the process.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*entry
	order   []string // Addresses in discovery order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*entry),
	}
}

// FindByAddress returns a copy of the device at address, if one exists.
func (r *Registry) FindByAddress(address string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.devices[address]
	if !ok {
		return Device{}, false
	}
	return e.device.Clone(), true
}

// CreateIfAbsent ensures a record exists for address. It returns a copy of
// the record and whether it was created by this call. Newly created records
// start out awaiting their channel names.
func (r *Registry) CreateIfAbsent(address string) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, exists := r.devices[address]; exists {
		return e.device.Clone(), false
	}

	e := &entry{
		device:               New(address),
		awaitingChannelNames: true,
	}
	r.devices[address] = e
	r.order = append(r.order, address)
	return e.device.Clone(), true
}

// All returns copies of every known device in the order they were discovered.
func (r *Registry) All() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, address := range r.order {
		devices = append(devices, r.devices[address].device.Clone())
	}
	return devices
}

// Len returns the number of known devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Update applies fn to the device at address while holding the registry
// lock. fn reports whether it changed the record. Update returns a copy of
// the record after fn ran, the changed flag, and false if no record exists.
func (r *Registry) Update(address string, fn func(d *Device) bool) (Device, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.devices[address]
	if !ok {
		return Device{}, false, false
	}
	changed := fn(e.device)
	return e.device.Clone(), changed, true
}

// TakeAwaitingChannelNames reports whether the device at address was
// waiting for its first channel count, clearing the flag.
func (r *Registry) TakeAwaitingChannelNames(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.devices[address]
	if !ok || !e.awaitingChannelNames {
		return false
	}
	e.awaitingChannelNames = false
	return true
}

// ChannelCount returns the cached channel counts for address.
func (r *Registry) ChannelCount(address string) (ChannelCount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.devices[address]
	if !ok {
		return ChannelCount{}, false
	}
	return e.device.ChannelCount, true
}
