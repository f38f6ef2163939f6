// SAADC driver: multi-channel sampling, double-buffered delivery and
// threshold notification for the successive-approximation ADC, coordinated
// between the foreground and the peripheral interrupt without locks or
// allocation.
package core

import (
	"saadc/errcode"
)

// Conversion states. Only the interrupt handler moves the state from busy
// back to idle, so the foreground can trust an observed idle outside the
// interrupt window.
const (
	stateIdle uint8 = iota
	stateBusy
)

// pinPair records the inputs bound to a logical channel. A disabled positive
// input means the channel is inactive.
type pinPair struct {
	pos AnalogInput
	neg AnalogInput
}

// Config is the driver-level configuration applied at Init.
type Config struct {
	Resolution        Resolution
	Oversample        Oversample
	InterruptPriority uint8

	// Bounds for the driver's busy-wait loops, in poll iterations. When a
	// bound expires the operation proceeds as if the hardware had responded;
	// the peripheral is known to withhold its stopped/started events in some
	// corner states and the driver tolerates that rather than wedging.
	StopWait   uint32 // Uninit waiting for the stopped event
	StartWait  uint32 // secondary-buffer handoff waiting for the started event
	SampleWait uint32 // SampleConvert waiting for the end event
}

// DefaultConfig returns the configuration used when Init is given nil.
func DefaultConfig() Config {
	return Config{
		Resolution:        Res10Bit,
		Oversample:        OversampleDisabled,
		InterruptPriority: 7,
		StopWait:          10000,
		StartWait:         10000,
		SampleWait:        100000,
	}
}

// Driver owns the SAADC peripheral. Exactly one instance is expected to
// exist per peripheral; Init registers it as the interrupt target and Uninit
// releases it, so the instance handle stays explicit instead of living in
// package state.
//
// All exported methods are foreground entry points. The whole record is
// shared with the interrupt handler; the only fields the foreground touches
// while a conversion runs are guarded by masking the end-of-conversion
// interrupt around the access.
type Driver struct {
	hw      Registers
	handler EventHandler
	cfg     Config

	initialized bool
	adcState    uint8

	channels       [ChannelCount]pinPair
	activeChannels uint8
	allocated      ainAllocator

	scanPos   uint8
	buffer    []Value
	bufferPos int
	secondary []Value

	armed     [ChannelCount][2]bool
	limitLow  [ChannelCount]Value
	limitHigh [ChannelCount]Value

	single [1]Value // result window for the blocking single-shot path
}

// New returns a driver bound to the given register interface. The driver is
// unusable until Init.
func New(hw Registers) *Driver {
	return &Driver{hw: hw}
}

// Init configures the peripheral, arms the end-of-conversion interrupt and
// registers the driver as the interrupt target. A nil cfg selects
// DefaultConfig. The handler is required: every result and threshold
// crossing is delivered through it.
func (d *Driver) Init(cfg *Config, handler EventHandler) error {
	if d.initialized {
		return errcode.InvalidState
	}
	if handler == nil {
		return errcode.InvalidParam
	}
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}

	d.cfg = *cfg
	d.handler = handler
	d.hw.SetResolution(cfg.Resolution)
	d.hw.SetOversample(cfg.Oversample)

	d.allocated = 0
	d.activeChannels = 0
	d.bufferPos = 0
	d.armed = [ChannelCount][2]bool{}

	d.initialized = true
	d.adcState = stateIdle

	setIRQTarget(d)
	d.hw.EnableIRQ(cfg.InterruptPriority)
	d.hw.IntEnable(IntEnd)
	d.hw.Enable()

	DebugPrintln("saadc: initialized")
	return nil
}

// Uninit stops any in-progress conversion, tears down every configured
// channel and returns the driver to the uninitialized state, permitting a
// later Init. Calling Uninit on an uninitialized driver is a programmer
// error.
//
// The stop is best effort: if the hardware never reports the stopped event
// within the configured bound, teardown proceeds anyway.
func (d *Driver) Uninit() {
	d.mustInit()

	d.hw.Trigger(TaskStop)
	d.waitFlag(EventFlagStopped, d.cfg.StopWait)
	d.adcState = stateIdle

	d.hw.Disable()
	d.hw.DisableIRQ()
	d.hw.IntDisable(IntEnd)

	for ch := uint8(0); ch < ChannelCount; ch++ {
		if d.channels[ch].pos != InputDisabled {
			_ = d.ChannelUninit(ch)
		}
	}

	setIRQTarget(nil)
	d.initialized = false
	DebugPrintln("saadc: uninitialized")
}

// BusyCheck reports whether a conversion is in progress.
func (d *Driver) BusyCheck() bool {
	return d.adcState == stateBusy
}

// waitFlag polls an event flag for at most bound iterations and reports
// whether the flag was observed. Callers deliberately proceed either way;
// see Config.
func (d *Driver) waitFlag(f EventFlag, bound uint32) bool {
	for i := uint32(0); i < bound; i++ {
		if d.hw.EventCheck(f) {
			return true
		}
	}
	return false
}

// mustInit guards mutating entry points against use before Init.
func (d *Driver) mustInit() {
	if !d.initialized {
		panic("saadc: driver not initialized")
	}
}

func mustChannel(channel uint8) {
	if channel >= ChannelCount {
		panic("saadc: channel index out of range")
	}
}
