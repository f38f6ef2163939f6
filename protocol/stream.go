package protocol

import "errors"

// Message kinds carried in frame payloads.
const (
	MsgSamples = 0x01 // a filled sample buffer: first channel, count, values
	MsgLimit   = 0x02 // a threshold crossing: channel, kind
)

// Limit kinds on the wire.
const (
	LimitKindLow  = 0
	LimitKindHigh = 1
)

var ErrBadMessage = errors.New("malformed stream message")

// Message is one decoded stream payload.
type Message struct {
	Kind uint8

	// Samples fields
	FirstChannel uint8 // channel of Values[0]; interleave follows scan order
	Values       []int16

	// Limit fields
	Channel   uint8
	LimitKind uint8
}

// EncodeSamples writes a MsgSamples payload into out.
func EncodeSamples(out OutputBuffer, firstChannel uint8, values []int16) {
	out.Output([]byte{MsgSamples, firstChannel})
	EncodeVLQUint(out, uint32(len(values)))
	for _, v := range values {
		EncodeVLQInt(out, int32(v))
	}
}

// EncodeLimit writes a MsgLimit payload into out.
func EncodeLimit(out OutputBuffer, channel uint8, kind uint8) {
	out.Output([]byte{MsgLimit, channel, kind})
}

// SamplesFrame builds a complete frame carrying a sample buffer.
// Convenient on the host side and in firmware paths that own a scratch
// output per frame.
func SamplesFrame(seq uint8, firstChannel uint8, values []int16) ([]byte, error) {
	payload := NewScratchOutput()
	EncodeSamples(payload, firstChannel, values)

	frame := NewScratchOutput()
	if err := EncodeFrame(frame, seq, payload.Result()); err != nil {
		return nil, err
	}
	out := make([]byte, len(frame.Result()))
	copy(out, frame.Result())
	return out, nil
}

// LimitFrame builds a complete frame carrying a threshold crossing.
func LimitFrame(seq uint8, channel uint8, kind uint8) ([]byte, error) {
	payload := NewScratchOutput()
	EncodeLimit(payload, channel, kind)

	frame := NewScratchOutput()
	if err := EncodeFrame(frame, seq, payload.Result()); err != nil {
		return nil, err
	}
	out := make([]byte, len(frame.Result()))
	copy(out, frame.Result())
	return out, nil
}

// DecodeMessage parses one frame payload.
func DecodeMessage(payload []byte) (Message, error) {
	if len(payload) == 0 {
		return Message{}, ErrBadMessage
	}

	switch payload[0] {
	case MsgSamples:
		if len(payload) < 3 {
			return Message{}, ErrBadMessage
		}
		msg := Message{Kind: MsgSamples, FirstChannel: payload[1]}
		rest := payload[2:]
		count, err := DecodeVLQUint(&rest)
		if err != nil {
			return Message{}, err
		}
		if count > uint32(MaxPayload) {
			return Message{}, ErrBadMessage
		}
		msg.Values = make([]int16, 0, count)
		for i := uint32(0); i < count; i++ {
			v, err := DecodeVLQInt(&rest)
			if err != nil {
				return Message{}, err
			}
			msg.Values = append(msg.Values, int16(v))
		}
		return msg, nil

	case MsgLimit:
		if len(payload) != 3 {
			return Message{}, ErrBadMessage
		}
		return Message{Kind: MsgLimit, Channel: payload[1], LimitKind: payload[2]}, nil

	default:
		return Message{}, ErrBadMessage
	}
}
