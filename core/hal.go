// Hardware control surface for the SAADC peripheral.
// Target-specific code (targets/) implements Registers over the real register
// block; SimRegisters provides a software model for host builds and tests.
package core

// ChannelCount is the number of logical SAADC channels.
const ChannelCount = 8

// Value is a single conversion result. The peripheral produces signed
// results even in single-ended mode (a result can undershoot zero).
type Value = int16

// AnalogInput selects what a channel input is wired to. AIN0..AIN7 are the
// physical analog input pins; VDD is a pseudo-input that is never subject to
// pin allocation. The zero value means "not connected".
type AnalogInput uint8

const (
	InputDisabled AnalogInput = 0
	InputAIN0     AnalogInput = 1
	InputAIN1     AnalogInput = 2
	InputAIN2     AnalogInput = 3
	InputAIN3     AnalogInput = 4
	InputAIN4     AnalogInput = 5
	InputAIN5     AnalogInput = 6
	InputAIN6     AnalogInput = 7
	InputAIN7     AnalogInput = 8
	InputVDD      AnalogInput = 9
)

// isAIN reports whether the input is a physical analog input pin, i.e. one
// that participates in pin allocation.
func (in AnalogInput) isAIN() bool {
	return in >= InputAIN0 && in <= InputAIN7
}

// ainNumber returns the physical pin number for an AINx input.
// Valid for AIN-class inputs only.
func (in AnalogInput) ainNumber() uint8 {
	return uint8(in) - uint8(InputAIN0)
}

// Task identifies a peripheral task register.
type Task uint8

const (
	TaskStart Task = iota // latch the result buffer and begin a conversion run
	TaskSample            // convert one sample into the latched buffer
	TaskStop              // abort the conversion run
)

// EventFlag identifies a peripheral event register. End/Started/Stopped are
// followed by two flags per channel for the limit comparators, in channel
// order with the high threshold first.
type EventFlag uint8

const (
	EventFlagEnd EventFlag = iota
	EventFlagStarted
	EventFlagStopped
	eventFlagLimitBase
)

const eventFlagCount = int(eventFlagLimitBase) + 2*ChannelCount

// LimitEventFlag returns the event flag of one channel's limit comparator.
func LimitEventFlag(channel uint8, kind LimitKind) EventFlag {
	f := eventFlagLimitBase + EventFlag(channel)*2
	if kind == LimitLow {
		f++
	}
	return f
}

// LimitEventFlagDecode splits a limit comparator event flag into channel and
// kind. ok is false for the non-limit flags.
func LimitEventFlagDecode(f EventFlag) (channel uint8, kind LimitKind, ok bool) {
	if f < eventFlagLimitBase || int(f) >= eventFlagCount {
		return 0, 0, false
	}
	rel := uint8(f - eventFlagLimitBase)
	kind = LimitHigh
	if rel%2 == 1 {
		kind = LimitLow
	}
	return rel / 2, kind, true
}

// IntMask selects interrupt sources. The limit comparator bits are hardware
// specific; they are obtained through Registers.LimitIntMask rather than
// composed here.
type IntMask uint32

const (
	IntEnd IntMask = 1 << iota
	IntStarted
	IntStopped
)

// Resolution is the conversion bit width.
type Resolution uint8

const (
	Res8Bit Resolution = iota
	Res10Bit
	Res12Bit
	Res14Bit
)

// Oversample is the hardware oversampling factor. Oversampling is only
// usable with exactly one active channel.
type Oversample uint8

const (
	OversampleDisabled Oversample = iota
	Oversample2x
	Oversample4x
	Oversample8x
	Oversample16x
	Oversample32x
	Oversample64x
	Oversample128x
	Oversample256x
)

// Gain is the input gain applied before conversion.
type Gain uint8

const (
	Gain1_6 Gain = iota
	Gain1_5
	Gain1_4
	Gain1_3
	Gain1_2
	Gain1
	Gain2
	Gain4
)

// Reference selects the conversion reference voltage.
type Reference uint8

const (
	RefInternal Reference = iota // 0.6 V internal reference
	RefVDD4                      // VDD/4
)

// AcqTime is the input acquisition time.
type AcqTime uint8

const (
	Acq3us AcqTime = iota
	Acq5us
	Acq10us
	Acq15us
	Acq20us
	Acq40us
)

// Mode selects single-ended or differential conversion for a channel.
type Mode uint8

const (
	ModeSingleEnded Mode = iota
	ModeDifferential
)

// Resistor selects the optional input resistor ladder.
type Resistor uint8

const (
	ResistorDisabled Resistor = iota
	ResistorPulldown
	ResistorPullup
	ResistorVDD2 // tie to VDD/2
)

// ChannelConfig is the hardware configuration of one logical channel.
type ChannelConfig struct {
	PinP      AnalogInput // positive input, must not be InputDisabled
	PinN      AnalogInput // negative input, InputDisabled for single-ended
	ResistorP Resistor
	ResistorN Resistor
	Gain      Gain
	Reference Reference
	AcqTime   AcqTime
	Mode      Mode
}

// DefaultChannelConfigSE returns the single-ended default configuration for
// the given positive input.
func DefaultChannelConfigSE(pin AnalogInput) ChannelConfig {
	return ChannelConfig{
		PinP:      pin,
		PinN:      InputDisabled,
		ResistorP: ResistorDisabled,
		ResistorN: ResistorDisabled,
		Gain:      Gain1_6,
		Reference: RefInternal,
		AcqTime:   Acq10us,
		Mode:      ModeSingleEnded,
	}
}

// Registers is the abstract peripheral register interface the driver runs
// against. Implementations translate these primitives to the hardware
// register block; they hold no policy.
//
// EnableIRQ/DisableIRQ cover the interrupt-vector plumbing: arm the SAADC
// vector (dispatching to ServiceIRQ) at the given priority, or disarm it.
type Registers interface {
	// Trigger fires a peripheral task.
	Trigger(t Task)

	// EventCheck reports whether an event flag is set.
	EventCheck(f EventFlag) bool

	// EventClear clears an event flag.
	EventClear(f EventFlag)

	// IntEnable enables the interrupt sources in mask.
	IntEnable(mask IntMask)

	// IntDisable disables the interrupt sources in mask.
	IntDisable(mask IntMask)

	// SetResolution programs the conversion bit width.
	SetResolution(r Resolution)

	// SetOversample programs the oversampling factor.
	SetOversample(o Oversample)

	// Oversample reads back the programmed oversampling factor.
	Oversample() Oversample

	// SetChannelConfig programs gain, reference, acquisition time and mode
	// for a channel.
	SetChannelConfig(channel uint8, cfg ChannelConfig)

	// SetChannelInput programs the live input multiplexer of a channel.
	// A channel with both inputs disabled does not convert.
	SetChannelInput(channel uint8, pos, neg AnalogInput)

	// SetBuffer programs the result buffer window. The window is latched by
	// the next Start task.
	SetBuffer(buf []Value)

	// SetChannelLimits programs the low/high comparator thresholds.
	SetChannelLimits(channel uint8, low, high Value)

	// LimitIntMask returns the interrupt mask bit of one channel's limit
	// comparator.
	LimitIntMask(channel uint8, kind LimitKind) IntMask

	// EnableIRQ arms the peripheral interrupt vector.
	EnableIRQ(priority uint8)

	// DisableIRQ disarms the peripheral interrupt vector.
	DisableIRQ()

	// Enable powers the peripheral on.
	Enable()

	// Disable powers the peripheral off.
	Disable()
}
