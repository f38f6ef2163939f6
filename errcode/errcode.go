package errcode

// Code is a stable result identifier returned by driver entry points.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Busy: the driver or a resource it needs is currently occupied. Raised
	// for configuration calls during an in-flight conversion and for a second
	// queued buffer when the pending slot is already taken.
	Busy Code = "busy"

	// InvalidState: the operation is not valid for the current lifecycle or
	// conversion state, or no channel is configured to convert from.
	InvalidState Code = "invalid_state"

	// InvalidParam: a required parameter is missing (no event handler).
	InvalidParam Code = "invalid_param"

	// NoMem: an analog input pin is already allocated to another channel.
	NoMem Code = "no_mem"

	Error Code = "error" // generic fallback
)

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
