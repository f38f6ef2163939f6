package core

// SimRegisters is a software model of the SAADC register block, shipped so
// host builds and tests can run the driver without silicon. It models the
// task/event discipline the driver depends on:
//
//   - Start latches the programmed buffer window and raises the started
//     event.
//   - Sample converts one value from the lowest channel whose multiplexer is
//     connected, writes it into the latched window, runs the limit
//     comparators, and raises the end event when the window is full.
//   - Stop drops the latched window and raises the stopped event.
//
// Values come from the Source function; tests swap it per scenario. Raised
// events stay pending until cleared, like the hardware's event registers.
type SimRegisters struct {
	// Source produces the conversion result for a channel. Nil reads as
	// zero samples.
	Source func(channel uint8) Value

	resolution Resolution
	oversample Oversample
	enabled    bool

	irqEnabled  bool
	irqPriority uint8

	channelCfg [ChannelCount]ChannelConfig
	inputs     [ChannelCount]pinPair
	limitLow   [ChannelCount]Value
	limitHigh  [ChannelCount]Value

	programmed []Value // window set by SetBuffer, latched by Start
	window     []Value // latched window being filled
	windowPos  int

	events  [eventFlagCount]bool
	intMask IntMask
}

// NewSimRegisters returns a powered-off simulated peripheral with all limit
// comparators at their never-firing reset thresholds.
func NewSimRegisters() *SimRegisters {
	s := &SimRegisters{}
	for ch := range s.limitLow {
		s.limitLow[ch] = LimitLowDisabled
		s.limitHigh[ch] = LimitHighDisabled
	}
	return s
}

func (s *SimRegisters) Trigger(t Task) {
	switch t {
	case TaskStart:
		s.window = s.programmed
		s.windowPos = 0
		s.events[EventFlagStarted] = true
	case TaskSample:
		s.convert()
	case TaskStop:
		s.window = nil
		s.events[EventFlagStopped] = true
	}
}

// convert performs one conversion, mirroring the emulated-scan contract:
// exactly one sample for the channel currently on the multiplexer.
func (s *SimRegisters) convert() {
	if !s.enabled || s.window == nil || s.windowPos >= len(s.window) {
		return
	}

	channel := uint8(ChannelCount)
	for ch := uint8(0); ch < ChannelCount; ch++ {
		if s.inputs[ch].pos != InputDisabled {
			channel = ch
			break
		}
	}
	if channel >= ChannelCount {
		return
	}

	var v Value
	if s.Source != nil {
		v = s.Source(channel)
	}
	s.window[s.windowPos] = v
	s.windowPos++

	if v > s.limitHigh[channel] {
		s.events[LimitEventFlag(channel, LimitHigh)] = true
	}
	if v < s.limitLow[channel] {
		s.events[LimitEventFlag(channel, LimitLow)] = true
	}

	if s.windowPos == len(s.window) {
		// Window complete; a new Start is needed before further samples.
		s.window = nil
		s.events[EventFlagEnd] = true
	}
}

func (s *SimRegisters) EventCheck(f EventFlag) bool {
	return s.events[f]
}

func (s *SimRegisters) EventClear(f EventFlag) {
	s.events[f] = false
}

func (s *SimRegisters) IntEnable(mask IntMask)  { s.intMask |= mask }
func (s *SimRegisters) IntDisable(mask IntMask) { s.intMask &^= mask }

func (s *SimRegisters) SetResolution(r Resolution) { s.resolution = r }
func (s *SimRegisters) SetOversample(o Oversample) { s.oversample = o }
func (s *SimRegisters) Oversample() Oversample     { return s.oversample }

func (s *SimRegisters) SetChannelConfig(channel uint8, cfg ChannelConfig) {
	s.channelCfg[channel] = cfg
}

func (s *SimRegisters) SetChannelInput(channel uint8, pos, neg AnalogInput) {
	s.inputs[channel] = pinPair{pos: pos, neg: neg}
}

func (s *SimRegisters) SetBuffer(buf []Value) {
	s.programmed = buf
}

func (s *SimRegisters) SetChannelLimits(channel uint8, low, high Value) {
	s.limitLow[channel] = low
	s.limitHigh[channel] = high
}

func (s *SimRegisters) LimitIntMask(channel uint8, kind LimitKind) IntMask {
	return IntMask(1) << (uint(eventFlagLimitBase) + 2*uint(channel) + uint(kind))
}

func (s *SimRegisters) EnableIRQ(priority uint8) {
	s.irqEnabled = true
	s.irqPriority = priority
}

func (s *SimRegisters) DisableIRQ() { s.irqEnabled = false }

func (s *SimRegisters) Enable()  { s.enabled = true }
func (s *SimRegisters) Disable() { s.enabled = false }

// RaiseFlag injects a pending event, as if the hardware had raised it.
func (s *SimRegisters) RaiseFlag(f EventFlag) {
	s.events[f] = true
}

// PendingIRQ reports whether any pending event has its interrupt source
// enabled, i.e. whether the vector would fire now.
func (s *SimRegisters) PendingIRQ() bool {
	if !s.irqEnabled {
		return false
	}
	check := func(f EventFlag, m IntMask) bool {
		return s.events[f] && s.intMask&m != 0
	}
	if check(EventFlagEnd, IntEnd) ||
		check(EventFlagStarted, IntStarted) ||
		check(EventFlagStopped, IntStopped) {
		return true
	}
	for ch := uint8(0); ch < ChannelCount; ch++ {
		for _, kind := range [2]LimitKind{LimitLow, LimitHigh} {
			if check(LimitEventFlag(ch, kind), s.LimitIntMask(ch, kind)) {
				return true
			}
		}
	}
	return false
}
