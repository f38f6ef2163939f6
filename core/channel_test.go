package core

import (
	"testing"

	"saadc/errcode"
)

func TestPinExclusivity(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN2)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}

	before := d.allocated
	beforeActive := d.activeChannels

	// Same pin on a different channel must be refused with no mutation.
	if err := d.ChannelInit(1, DefaultChannelConfigSE(InputAIN2)); errcode.Of(err) != errcode.NoMem {
		t.Fatalf("expected no_mem, got %v", err)
	}
	if d.allocated != before || d.activeChannels != beforeActive {
		t.Error("failed ChannelInit mutated allocator state")
	}
	if d.channels[1].pos != InputDisabled {
		t.Error("failed ChannelInit recorded a pin pair")
	}

	// The same holds when the pin is wanted as negative input.
	cfg := DefaultChannelConfigSE(InputAIN3)
	cfg.PinN = InputAIN2
	cfg.Mode = ModeDifferential
	if err := d.ChannelInit(1, cfg); errcode.Of(err) != errcode.NoMem {
		t.Fatalf("expected no_mem for negative pin, got %v", err)
	}
}

func TestNegativePinIsAllocated(t *testing.T) {
	d, _, _ := newTestDriver(t)

	cfg := DefaultChannelConfigSE(InputAIN0)
	cfg.PinN = InputAIN1
	cfg.Mode = ModeDifferential
	if err := d.ChannelInit(0, cfg); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}

	if err := d.ChannelInit(1, DefaultChannelConfigSE(InputAIN1)); errcode.Of(err) != errcode.NoMem {
		t.Fatalf("negative pin not tracked: got %v", err)
	}
}

func TestPseudoInputsNeverAllocated(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputVDD)); err != nil {
		t.Fatalf("ChannelInit(VDD): %v", err)
	}
	if err := d.ChannelInit(1, DefaultChannelConfigSE(InputVDD)); err != nil {
		t.Fatalf("VDD must be shareable: %v", err)
	}
	if d.allocated != 0 {
		t.Errorf("pseudo-input claimed a pin bit: %08b", d.allocated)
	}
	if d.activeChannels != 2 {
		t.Errorf("active channels = %d, want 2", d.activeChannels)
	}
}

func TestActiveChannelCountTracksTable(t *testing.T) {
	d, _, _ := newTestDriver(t)

	count := func() uint8 {
		var n uint8
		for _, p := range d.channels {
			if p.pos != InputDisabled {
				n++
			}
		}
		return n
	}

	steps := []func(){
		func() { _ = d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0)) },
		func() { _ = d.ChannelInit(5, DefaultChannelConfigSE(InputAIN4)) },
		// Rebinding an active channel must not double-count it.
		func() { _ = d.ChannelInit(0, DefaultChannelConfigSE(InputAIN1)) },
		func() { _ = d.ChannelUninit(5) },
		// Deconfiguring an inactive channel is a no-op for the count.
		func() { _ = d.ChannelUninit(5) },
		func() { _ = d.ChannelUninit(0) },
	}
	for i, step := range steps {
		step()
		if d.activeChannels != count() {
			t.Fatalf("step %d: activeChannels=%d, table says %d", i, d.activeChannels, count())
		}
	}
}

func TestRebindReleasesPreviousPins(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN1)); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	// AIN0 must be free again.
	if err := d.ChannelInit(1, DefaultChannelConfigSE(InputAIN0)); err != nil {
		t.Fatalf("previous pin not released on rebind: %v", err)
	}
}

func TestConfigurationRejectedWhileBusy(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	buf := make([]Value, 4)
	if err := d.BufferConvert(buf); err != nil {
		t.Fatalf("BufferConvert: %v", err)
	}

	before := d.allocated
	if err := d.ChannelInit(1, DefaultChannelConfigSE(InputAIN1)); errcode.Of(err) != errcode.Busy {
		t.Fatalf("expected busy, got %v", err)
	}
	if err := d.ChannelUninit(0); errcode.Of(err) != errcode.Busy {
		t.Fatalf("expected busy, got %v", err)
	}
	if d.allocated != before {
		t.Error("busy-rejected call mutated allocator state")
	}
}

func TestChannelRoundTrip(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if err := d.ChannelInit(2, DefaultChannelConfigSE(InputAIN6)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	startAlloc := d.allocated
	startActive := d.activeChannels

	// Any sequence ending at the same net configuration must leave the
	// allocator and the active count identical.
	_ = d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0))
	cfg := DefaultChannelConfigSE(InputAIN1)
	cfg.PinN = InputAIN2
	cfg.Mode = ModeDifferential
	_ = d.ChannelInit(4, cfg)
	_ = d.ChannelUninit(0)
	_ = d.ChannelInit(0, DefaultChannelConfigSE(InputAIN3))
	_ = d.ChannelUninit(4)
	_ = d.ChannelUninit(0)

	if d.allocated != startAlloc {
		t.Errorf("allocator drifted: start %08b, end %08b", startAlloc, d.allocated)
	}
	if d.activeChannels != startActive {
		t.Errorf("active count drifted: start %d, end %d", startActive, d.activeChannels)
	}
}
