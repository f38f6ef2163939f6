package core

import (
	"testing"

	"saadc/errcode"
)

// eventRecorder collects handler invocations for inspection.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) handle(e Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) done() []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == EventDone {
			out = append(out, e)
		}
	}
	return out
}

func (r *eventRecorder) limits() []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == EventLimit {
			out = append(out, e)
		}
	}
	return out
}

// pump services the interrupt vector until no enabled event is pending,
// the way the hardware would re-enter the handler.
func pump(t *testing.T, s *SimRegisters) {
	t.Helper()
	for i := 0; s.PendingIRQ(); i++ {
		if i > 1000 {
			t.Fatal("pending interrupt never drained")
		}
		ServiceIRQ()
	}
}

// newTestDriver returns an initialized driver on a simulated peripheral.
func newTestDriver(t *testing.T) (*Driver, *SimRegisters, *eventRecorder) {
	t.Helper()
	sim := NewSimRegisters()
	rec := &eventRecorder{}
	d := New(sim)
	if err := d.Init(nil, rec.handle); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		if d.initialized {
			d.Uninit()
		}
	})
	return d, sim, rec
}

func TestInitRequiresHandler(t *testing.T) {
	d := New(NewSimRegisters())
	if err := d.Init(nil, nil); errcode.Of(err) != errcode.InvalidParam {
		t.Fatalf("expected invalid_param, got %v", err)
	}
}

func TestInitTwiceRejected(t *testing.T) {
	d, _, rec := newTestDriver(t)
	if err := d.Init(nil, rec.handle); errcode.Of(err) != errcode.InvalidState {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestInitAppliesConfig(t *testing.T) {
	sim := NewSimRegisters()
	d := New(sim)
	cfg := DefaultConfig()
	cfg.Resolution = Res14Bit
	cfg.InterruptPriority = 3
	if err := d.Init(&cfg, func(Event) {}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer d.Uninit()

	if sim.resolution != Res14Bit {
		t.Errorf("resolution not programmed: got %d", sim.resolution)
	}
	if !sim.irqEnabled || sim.irqPriority != 3 {
		t.Errorf("vector not armed at priority 3: enabled=%v prio=%d", sim.irqEnabled, sim.irqPriority)
	}
	if !sim.enabled {
		t.Error("peripheral not enabled")
	}
	if sim.intMask&IntEnd == 0 {
		t.Error("end-of-conversion interrupt not enabled")
	}
}

func TestUninitReleasesEverything(t *testing.T) {
	d, sim, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	if err := d.ChannelInit(3, DefaultChannelConfigSE(InputAIN5)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	d.LimitSet(0, -100, 100)

	d.Uninit()

	if d.allocated != 0 {
		t.Errorf("pins still allocated after Uninit: %08b", d.allocated)
	}
	if d.activeChannels != 0 {
		t.Errorf("active channels after Uninit: %d", d.activeChannels)
	}
	if sim.enabled {
		t.Error("peripheral still enabled after Uninit")
	}
	if sim.irqEnabled {
		t.Error("vector still armed after Uninit")
	}

	// A second Init must succeed on the same instance.
	if err := d.Init(nil, func(Event) {}); err != nil {
		t.Fatalf("re-Init after Uninit failed: %v", err)
	}
}

func TestUninitStopsInFlightConversion(t *testing.T) {
	d, sim, _ := newTestDriver(t)

	if err := d.ChannelInit(0, DefaultChannelConfigSE(InputAIN0)); err != nil {
		t.Fatalf("ChannelInit: %v", err)
	}
	buf := make([]Value, 8)
	if err := d.BufferConvert(buf); err != nil {
		t.Fatalf("BufferConvert: %v", err)
	}
	if !d.BusyCheck() {
		t.Fatal("expected busy after BufferConvert")
	}

	d.Uninit()
	if d.BusyCheck() {
		t.Error("still busy after Uninit")
	}
	if sim.window != nil {
		t.Error("conversion window still latched after stop")
	}
}
