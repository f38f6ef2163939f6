package core

// Threshold sentinels. A limit set to its sentinel is disabled; the
// comparator can never fire past the numeric range of a result.
const (
	LimitLowDisabled  Value = -32768
	LimitHighDisabled Value = 32767
)

// LimitSet programs a channel's low/high comparator thresholds and arms or
// disarms the matching interrupt sources. Each threshold is handled
// independently: its sentinel value disarms it, anything else arms it.
// Crossings are reported through the event handler, which is why the driver
// refuses to run without one.
func (d *Driver) LimitSet(channel uint8, low, high Value) {
	d.mustInit()
	mustChannel(channel)
	if d.handler == nil {
		panic("saadc: limit thresholds need an event handler")
	}

	d.hw.SetChannelLimits(channel, low, high)
	d.limitLow[channel] = low
	d.limitHigh[channel] = high

	mask := d.hw.LimitIntMask(channel, LimitLow)
	if low == LimitLowDisabled {
		d.armed[channel][LimitLow] = false
		d.hw.IntDisable(mask)
	} else {
		d.armed[channel][LimitLow] = true
		d.hw.IntEnable(mask)
	}

	mask = d.hw.LimitIntMask(channel, LimitHigh)
	if high == LimitHighDisabled {
		d.armed[channel][LimitHigh] = false
		d.hw.IntDisable(mask)
	} else {
		d.armed[channel][LimitHigh] = true
		d.hw.IntEnable(mask)
	}

	DebugPrintln("saadc: limits ch " + utoa(uint32(channel)) +
		" low=" + itoa(int(low)) + " high=" + itoa(int(high)))
}
