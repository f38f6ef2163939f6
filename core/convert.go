package core

import (
	"saadc/errcode"
)

// BufferConvert requests an asynchronous conversion into buf. The buffer is
// reported back, filled, through a single done event.
//
// While a conversion runs, one extra buffer may be queued; it takes over
// automatically when the current buffer completes, without the driver going
// through idle in between. A second queued buffer is refused with Busy.
//
// When idle, sampling starts on the first active channel (ascending index).
// With one active channel the hardware fills the whole buffer on its own;
// with several, the interrupt handler advances a one-sample window across
// the buffer, rotating the input multiplexer round-robin over the active
// channels. Returns InvalidState when no channel is configured.
func (d *Driver) BufferConvert(buf []Value) error {
	d.mustInit()

	// The interrupt handler inspects the pending slot and the conversion
	// state; mask its interrupt while deciding.
	d.hw.IntDisable(IntEnd)
	if d.adcState == stateBusy {
		if d.secondary != nil {
			d.hw.IntEnable(IntEnd)
			return errcode.Busy
		}
		d.secondary = buf
		if d.activeChannels == 1 {
			// Hand the buffer straight to the hardware so it can chain
			// into it without interrupt latency. The started event from
			// the in-progress conversion gates the handoff.
			d.waitFlag(EventFlagStarted, d.cfg.StartWait)
			d.hw.EventClear(EventFlagStarted)
			d.hw.SetBuffer(buf)
		}
		d.hw.IntEnable(IntEnd)
		return nil
	}
	d.hw.IntEnable(IntEnd)

	return d.beginConversion(buf)
}

// beginConversion programs a primary conversion into buf. Shared between
// BufferConvert's idle branch and the interrupt handler's continuation into
// a queued buffer, so the continuation does not re-enter the public entry
// point from interrupt context.
func (d *Driver) beginConversion(buf []Value) error {
	scan := uint8(ChannelCount)
	for i := uint8(0); i < ChannelCount; i++ {
		if d.channels[i].pos != InputDisabled {
			scan = i
			break
		}
	}
	if scan >= ChannelCount {
		return errcode.InvalidState
	}

	d.adcState = stateBusy
	d.scanPos = scan
	d.buffer = buf
	d.bufferPos = 0
	d.secondary = nil

	d.hw.SetChannelInput(scan, d.channels[scan].pos, d.channels[scan].neg)
	if d.activeChannels == 1 {
		d.hw.SetBuffer(buf)
	} else {
		// Scan emulation samples one channel at a time.
		d.hw.SetBuffer(buf[:1])
	}
	d.hw.EventClear(EventFlagStarted)
	d.hw.Trigger(TaskStart)
	return nil
}

// Sample triggers one conversion of the in-progress run. Each trigger
// produces one sample per active channel in scan order.
//
// Returns Busy when the driver is idle: with no conversion in flight there
// is nothing to sample into. (The error code is historical and deliberately
// kept; read it as "no conversion running".)
func (d *Driver) Sample() error {
	d.mustInit()
	if d.adcState == stateIdle {
		return errcode.Busy
	}
	d.hw.Trigger(TaskSample)
	return nil
}

// SampleConvert converts one sample from the given channel synchronously,
// bypassing the asynchronous state machine. Returns Busy unless the driver
// is idle. The end-of-conversion interrupt is masked for the duration so the
// interrupt handler never sees this conversion.
func (d *Driver) SampleConvert(channel uint8, out *Value) error {
	d.mustInit()
	mustChannel(channel)

	if d.adcState != stateIdle {
		return errcode.Busy
	}
	d.adcState = stateBusy

	d.hw.IntDisable(IntEnd)
	d.hw.SetBuffer(d.single[:])
	d.hw.SetChannelInput(channel, d.channels[channel].pos, d.channels[channel].neg)
	d.hw.Trigger(TaskStart)
	d.hw.Trigger(TaskSample)

	d.waitFlag(EventFlagEnd, d.cfg.SampleWait)
	d.hw.EventClear(EventFlagEnd)
	*out = d.single[0]

	d.hw.SetChannelInput(channel, InputDisabled, InputDisabled)
	d.hw.IntEnable(IntEnd)
	d.adcState = stateIdle
	return nil
}
