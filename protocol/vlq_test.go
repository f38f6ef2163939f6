package protocol

import (
	"testing"
)

func TestVLQEncodeDecodeInt(t *testing.T) {
	testCases := []int32{
		0,
		1,
		-1,
		31,
		-32,
		127,
		-127,
		128,
		-128,
		255,
		-255,
		1000,
		-1000,
		32767,
		-32768,
		65535,
		-65535,
		1000000,
		-1000000,
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("Failed to decode VLQ for value %d: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("VLQ mismatch: expected %d, got %d (encoded as %v)", expected, decoded, encoded)
		}

		if len(data) != 0 {
			t.Errorf("VLQ decode didn't consume all bytes for value %d: %d bytes remaining", expected, len(data))
		}
	}
}

func TestVLQSampleRangeIsCompact(t *testing.T) {
	// The full span of conversion results must round-trip, and values near
	// zero must stay single-byte so quiet channels cost little bandwidth.
	for v := int32(-32768); v <= 32767; v += 17 {
		output := NewScratchOutput()
		EncodeVLQInt(output, v)
		encoded := output.Result()

		if len(encoded) > 3 {
			t.Fatalf("value %d encoded to %d bytes", v, len(encoded))
		}
		if v >= -32 && v < 96 && len(encoded) != 1 {
			t.Errorf("small value %d took %d bytes", v, len(encoded))
		}

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil || decoded != v {
			t.Fatalf("round trip of %d failed: got %d, err %v", v, decoded, err)
		}
	}
}

func TestVLQTruncatedInput(t *testing.T) {
	output := NewScratchOutput()
	EncodeVLQInt(output, 1000000)
	encoded := output.Result()

	for cut := 0; cut < len(encoded); cut++ {
		data := encoded[:cut]
		if _, err := DecodeVLQInt(&data); err == nil {
			t.Errorf("truncation to %d bytes decoded without error", cut)
		}
	}
}
