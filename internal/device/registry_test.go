package device

import (
	"sync"
	"testing"
)

func TestRegistryCreateIfAbsent(t *testing.T) {
	reg := NewRegistry()

	dev, created := reg.CreateIfAbsent("10.0.0.5")
	if !created {
		t.Fatal("CreateIfAbsent() created = false for new address, want true")
	}
	if dev.Address != "10.0.0.5" {
		t.Errorf("Address = %q, want %q", dev.Address, "10.0.0.5")
	}
	if dev.Name != "" {
		t.Errorf("Name = %q, want empty before device info", dev.Name)
	}
	if dev.ChannelCount != (ChannelCount{}) {
		t.Errorf("ChannelCount = %+v, want zero", dev.ChannelCount)
	}

	_, created = reg.CreateIfAbsent("10.0.0.5")
	if created {
		t.Error("CreateIfAbsent() created = true for existing address, want false")
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryFindByAddress(t *testing.T) {
	reg := NewRegistry()
	reg.CreateIfAbsent("10.0.0.5")

	if _, ok := reg.FindByAddress("10.0.0.6"); ok {
		t.Error("FindByAddress() found unknown address")
	}

	dev, ok := reg.FindByAddress("10.0.0.5")
	if !ok {
		t.Fatal("FindByAddress() did not find registered address")
	}
	if dev.Address != "10.0.0.5" {
		t.Errorf("Address = %q, want %q", dev.Address, "10.0.0.5")
	}
}

func TestRegistryAllPreservesDiscoveryOrder(t *testing.T) {
	reg := NewRegistry()
	for _, addr := range []string{"10.0.0.9", "10.0.0.1", "10.0.0.5"} {
		reg.CreateIfAbsent(addr)
	}
	reg.CreateIfAbsent("10.0.0.1")

	all := reg.All()
	want := []string{"10.0.0.9", "10.0.0.1", "10.0.0.5"}
	if len(all) != len(want) {
		t.Fatalf("All() returned %d devices, want %d", len(all), len(want))
	}
	for i, addr := range want {
		if all[i].Address != addr {
			t.Errorf("All()[%d].Address = %q, want %q", i, all[i].Address, addr)
		}
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := NewRegistry()
	reg.CreateIfAbsent("10.0.0.5")
	reg.Update("10.0.0.5", func(d *Device) bool {
		return d.SetTxChannel(0, "Left")
	})

	dev, _ := reg.FindByAddress("10.0.0.5")
	dev.Name = "mutated"
	dev.Channels.Tx[0] = "mutated"

	again, _ := reg.FindByAddress("10.0.0.5")
	if again.Name != "" {
		t.Errorf("Name = %q, registry was mutated through a copy", again.Name)
	}
	if again.Channels.Tx[0] != "Left" {
		t.Errorf("Channels.Tx[0] = %q, registry was mutated through a copy", again.Channels.Tx[0])
	}
}

func TestRegistryUpdate(t *testing.T) {
	reg := NewRegistry()

	if _, _, ok := reg.Update("10.0.0.5", func(d *Device) bool { return true }); ok {
		t.Error("Update() ok = true for unknown address")
	}

	reg.CreateIfAbsent("10.0.0.5")
	dev, changed, ok := reg.Update("10.0.0.5", func(d *Device) bool {
		d.Name = "Stage Box"
		return true
	})
	if !ok || !changed {
		t.Fatalf("Update() = changed %v ok %v, want true true", changed, ok)
	}
	if dev.Name != "Stage Box" {
		t.Errorf("Name = %q, want %q", dev.Name, "Stage Box")
	}
}

func TestRegistryTakeAwaitingChannelNames(t *testing.T) {
	reg := NewRegistry()

	if reg.TakeAwaitingChannelNames("10.0.0.5") {
		t.Error("TakeAwaitingChannelNames() = true for unknown address")
	}

	reg.CreateIfAbsent("10.0.0.5")
	if !reg.TakeAwaitingChannelNames("10.0.0.5") {
		t.Error("TakeAwaitingChannelNames() = false for newly created device")
	}
	if reg.TakeAwaitingChannelNames("10.0.0.5") {
		t.Error("TakeAwaitingChannelNames() = true on second call, flag must be one-shot")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	reg.CreateIfAbsent("10.0.0.5")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.Update("10.0.0.5", func(d *Device) bool {
				return d.SetTxChannel(i, "ch")
			})
		}(i)
		go func() {
			defer wg.Done()
			_ = reg.All()
		}()
	}
	wg.Wait()

	dev, _ := reg.FindByAddress("10.0.0.5")
	if len(dev.Channels.Tx) != 8 {
		t.Errorf("len(Channels.Tx) = %d, want 8", len(dev.Channels.Tx))
	}
}
