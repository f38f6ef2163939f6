package core

import (
	"saadc/errcode"
)

// ainAllocator tracks which physical analog input pins are claimed, one bit
// per AINx pin. Exclusivity is per physical pin, independent of whether a
// channel uses it as positive or negative input. Pseudo-inputs (VDD) are
// never tracked and always available.
type ainAllocator uint8

// allocate claims a pin. Returns false without mutation if the pin is
// already claimed. Non-AIN inputs always succeed.
func (a *ainAllocator) allocate(in AnalogInput) bool {
	if !in.isAIN() {
		return true
	}
	mask := ainAllocator(1) << in.ainNumber()
	if *a&mask != 0 {
		return false
	}
	*a |= mask
	return true
}

// release clears a claim. Idempotent; non-AIN inputs are ignored.
func (a *ainAllocator) release(in AnalogInput) {
	if !in.isAIN() {
		return
	}
	*a &^= ainAllocator(1) << in.ainNumber()
}

// isAllocated reports whether a pin is currently claimed.
func (a ainAllocator) isAllocated(in AnalogInput) bool {
	if !in.isAIN() {
		return false
	}
	return a&(ainAllocator(1)<<in.ainNumber()) != 0
}

// ChannelInit binds a channel to the pin pair in cfg and programs its
// hardware configuration. The channel's input multiplexer stays disabled;
// channels are connected only transiently while being sampled (hardware
// scan mode is not used, see the interrupt handler).
//
// Returns Busy while a conversion runs and NoMem when a requested pin is
// already allocated to a different channel; neither mutates any state.
// Re-initializing a bound channel releases its previous pins.
func (d *Driver) ChannelInit(channel uint8, cfg ChannelConfig) error {
	d.mustInit()
	mustChannel(channel)
	if cfg.PinP == InputDisabled || cfg.PinP > InputVDD {
		panic("saadc: invalid positive input")
	}
	if cfg.PinN > InputVDD {
		panic("saadc: invalid negative input")
	}
	// Oversampling works on a single channel only.
	if d.hw.Oversample() != OversampleDisabled && d.activeChannels != 0 {
		panic("saadc: oversampling requires a single channel")
	}

	if d.adcState == stateBusy {
		return errcode.Busy
	}

	prev := d.channels[channel]
	if d.pinTakenElsewhere(cfg.PinP, prev) || d.pinTakenElsewhere(cfg.PinN, prev) {
		return errcode.NoMem
	}

	d.allocated.release(prev.pos)
	d.allocated.release(prev.neg)
	d.allocated.allocate(cfg.PinP)
	d.allocated.allocate(cfg.PinN)

	if prev.pos == InputDisabled {
		d.activeChannels++
	}
	d.channels[channel] = pinPair{pos: cfg.PinP, neg: cfg.PinN}

	d.hw.SetChannelConfig(channel, cfg)
	d.hw.SetChannelInput(channel, InputDisabled, InputDisabled)
	DebugPrintln("saadc: channel " + utoa(uint32(channel)) + " bound")
	return nil
}

// pinTakenElsewhere reports whether in is allocated by a channel other than
// the one currently holding the pair prev.
func (d *Driver) pinTakenElsewhere(in AnalogInput, prev pinPair) bool {
	if !d.allocated.isAllocated(in) {
		return false
	}
	return in != prev.pos && in != prev.neg
}

// ChannelUninit releases the channel's pins, clears its pin-pair record,
// disarms its limit thresholds and disables its input multiplexer. Returns
// Busy while a conversion runs.
func (d *Driver) ChannelUninit(channel uint8) error {
	d.mustInit()
	mustChannel(channel)

	if d.adcState == stateBusy {
		return errcode.Busy
	}

	pair := d.channels[channel]
	d.allocated.release(pair.pos)
	d.allocated.release(pair.neg)

	if pair.pos != InputDisabled {
		d.activeChannels--
	}
	d.channels[channel] = pinPair{}

	d.hw.SetChannelInput(channel, InputDisabled, InputDisabled)
	d.LimitSet(channel, LimitLowDisabled, LimitHighDisabled)
	return nil
}
