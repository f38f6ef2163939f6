// Compact framed telemetry stream: the firmware side emits sample buffers
// and limit notifications as short CRC-protected frames; the host side
// resynchronizes on the trailing sync byte after any corruption.
package protocol

import "errors"

const (
	FrameHeaderSize  = 2 // length byte, sequence byte
	FrameTrailerSize = 3 // crc16 (big endian), sync byte
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64

	FrameSync = 0x7E

	// The sequence byte carries a fixed marker nibble over a 4-bit counter,
	// so a raw length byte is never mistaken for a sequence byte while
	// resynchronizing.
	frameSeqMarker = 0x10
	frameSeqMask   = 0x0F
)

var ErrPayloadTooLarge = errors.New("frame payload too large")

// MaxPayload is the largest payload one frame can carry.
const MaxPayload = FrameLengthMax - FrameHeaderSize - FrameTrailerSize

// EncodeFrame writes one complete frame wrapping payload into out.
func EncodeFrame(out OutputBuffer, seq uint8, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrPayloadTooLarge
	}

	start := out.CurPosition()
	total := byte(FrameHeaderSize + len(payload) + FrameTrailerSize)
	out.Output([]byte{total, frameSeqMarker | (seq & frameSeqMask)})
	out.Output(payload)

	crc := CRC16(out.DataSince(start))
	out.Output([]byte{byte(crc >> 8), byte(crc), FrameSync})
	return nil
}

// Frame is one decoded frame.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// Decoder incrementally decodes a frame stream. Feed it raw reads; Next
// yields complete frames. After garbage or a CRC mismatch the decoder drops
// data until the next sync byte.
type Decoder struct {
	buf    []byte
	synced bool
}

// NewDecoder returns a decoder. It starts synchronized, assuming the stream
// begins at a frame boundary; anything malformed makes it hunt for the next
// sync byte.
func NewDecoder() *Decoder {
	return &Decoder{synced: true}
}

// Feed appends raw stream data.
func (d *Decoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// Next returns the next complete frame, or ok=false when more data is
// needed.
func (d *Decoder) Next() (Frame, bool) {
	for {
		if !d.synced {
			if !d.resync() {
				return Frame{}, false
			}
		}

		// Skip keep-alive sync bytes between frames.
		for len(d.buf) > 0 && d.buf[0] == FrameSync {
			d.buf = d.buf[1:]
		}
		if len(d.buf) < FrameLengthMin {
			return Frame{}, false
		}

		total := int(d.buf[0])
		if total < FrameLengthMin || total > FrameLengthMax {
			d.synced = false
			continue
		}
		if d.buf[1]&^frameSeqMask != frameSeqMarker {
			d.synced = false
			continue
		}
		if len(d.buf) < total {
			return Frame{}, false
		}
		if d.buf[total-1] != FrameSync {
			d.synced = false
			continue
		}

		want := uint16(d.buf[total-3])<<8 | uint16(d.buf[total-2])
		if CRC16(d.buf[:total-FrameTrailerSize]) != want {
			d.synced = false
			continue
		}

		payload := make([]byte, total-FrameHeaderSize-FrameTrailerSize)
		copy(payload, d.buf[FrameHeaderSize:total-FrameTrailerSize])
		seq := d.buf[1] & frameSeqMask
		d.buf = d.buf[total:]
		return Frame{Seq: seq, Payload: payload}, true
	}
}

// resync drops data up to and including the next sync byte. Reports whether
// sync was found.
func (d *Decoder) resync() bool {
	for i, b := range d.buf {
		if b == FrameSync {
			d.buf = d.buf[i+1:]
			d.synced = true
			return true
		}
	}
	d.buf = nil
	return false
}
