package core

// The interrupt vector carries no argument, so the driver instance is
// registered here once at Init and looked up by ServiceIRQ. Target code
// wires the hardware vector to ServiceIRQ.
var irqTarget *Driver

func setIRQTarget(d *Driver) {
	irqTarget = d
}

// ServiceIRQ dispatches the SAADC interrupt to the registered driver.
// Safe to call with no driver registered; the interrupt is then ignored.
func ServiceIRQ() {
	if d := irqTarget; d != nil {
		d.serviceInterrupt()
	}
}

// serviceInterrupt is the peripheral interrupt handler. It runs in
// interrupt context and may preempt any foreground instruction outside the
// foreground's masked sections. Event order within one entry: buffer
// completion first, then stop, then limit crossings. Events that map to no
// known source are ignored.
func (d *Driver) serviceInterrupt() {
	if d.hw.EventCheck(EventFlagEnd) {
		d.hw.EventClear(EventFlagEnd)
		if d.activeChannels == 1 {
			d.endSingle()
		} else {
			d.endScan()
		}
	}
	if d.hw.EventCheck(EventFlagStopped) {
		d.hw.EventClear(EventFlagStopped)
		d.adcState = stateIdle
	} else {
		d.scanLimits()
	}
}

// endSingle handles a buffer completion with one active channel: the
// hardware filled the whole buffer by itself. If a buffer is queued it
// becomes the new primary and sampling restarts before the handler runs, so
// the stream continues without an idle gap.
func (d *Driver) endSingle() {
	done := Event{Type: EventDone, Buffer: d.buffer}

	if d.secondary == nil {
		d.adcState = stateIdle
	} else {
		d.buffer = d.secondary
		d.secondary = nil
		d.hw.Trigger(TaskStart)
	}

	d.handler(done)
}

// endScan handles a buffer completion event in emulated scan mode: hardware
// multi-channel scanning is not usable here, so every conversion yields one
// sample for the channel currently on the multiplexer and the handler
// rotates the mux itself.
func (d *Driver) endScan() {
	d.bufferPos++
	if d.bufferPos == len(d.buffer) {
		done := Event{Type: EventDone, Buffer: d.buffer}

		if d.secondary == nil {
			d.adcState = stateIdle
		} else {
			// Continue straight into the queued buffer; the next end event
			// scans into it.
			_ = d.beginConversion(d.secondary)
		}

		d.handler(done)
		return
	}

	// Not full yet: move the one-sample window forward and the multiplexer
	// to the next active channel, wrapping past the end of the table back to
	// the first active one.
	d.hw.SetChannelInput(d.scanPos, InputDisabled, InputDisabled)
	d.hw.SetBuffer(d.buffer[d.bufferPos : d.bufferPos+1])

	next := d.scanPos + 1
	for ; next < ChannelCount; next++ {
		if d.channels[next].pos != InputDisabled {
			break
		}
	}
	if next >= ChannelCount {
		for i := uint8(0); i < ChannelCount; i++ {
			if d.channels[i].pos != InputDisabled {
				next = i
				break
			}
		}
	}
	d.scanPos = next

	d.hw.SetChannelInput(next, d.channels[next].pos, d.channels[next].neg)
	d.hw.Trigger(TaskStart)
	d.hw.Trigger(TaskSample)
}

// scanLimits walks the armed-threshold table in channel order, high before
// low, and reports every comparator event that fired. Several crossings may
// be reported within a single interrupt entry.
func (d *Driver) scanLimits() {
	for ch := uint8(0); ch < ChannelCount; ch++ {
		for _, kind := range [2]LimitKind{LimitHigh, LimitLow} {
			if !d.armed[ch][kind] {
				continue
			}
			flag := LimitEventFlag(ch, kind)
			if !d.hw.EventCheck(flag) {
				continue
			}
			d.hw.EventClear(flag)
			d.handler(Event{Type: EventLimit, Channel: ch, Kind: kind})
		}
	}
}
