package core

// LimitKind distinguishes the two comparator thresholds of a channel.
type LimitKind uint8

const (
	LimitLow  LimitKind = 0
	LimitHigh LimitKind = 1
)

func (k LimitKind) String() string {
	if k == LimitHigh {
		return "high"
	}
	return "low"
}

// EventType tags a driver event.
type EventType uint8

const (
	// EventDone reports a completely filled sample buffer.
	EventDone EventType = iota
	// EventLimit reports a threshold crossing on one channel.
	EventLimit
)

// Event is what the driver reports to the application. Exactly one event is
// delivered per completed buffer and per decoded limit crossing.
type Event struct {
	Type EventType

	// Buffer is the filled sample buffer. Valid for EventDone. The driver
	// drops its reference once the handler returns; ownership is back with
	// the caller that supplied the buffer.
	Buffer []Value

	// Channel and Kind identify the crossed threshold. Valid for EventLimit.
	Channel uint8
	Kind    LimitKind
}

// EventHandler receives driver events.
//
// The handler runs directly in interrupt context, in the order the hardware
// events are observed (buffer completions before limit crossings within one
// interrupt entry). It must be fast, must not block, and must not
// reconfigure the peripheral. Implementations that need to do real work
// should record the event into a fixed-capacity single-producer queue and
// drain it from the foreground; the driver itself stays with direct
// invocation to keep completion-to-handoff latency at its minimum.
type EventHandler func(Event)
