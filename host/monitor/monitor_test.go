package monitor

import (
	"testing"

	"saadc/protocol"
)

func TestFeedDispatchesSamples(t *testing.T) {
	m := New()

	var gotFirst uint8
	var gotValues []int16
	m.OnSamples(func(first uint8, values []int16) {
		gotFirst = first
		gotValues = append([]int16(nil), values...)
	})

	frame, err := protocol.SamplesFrame(0, 3, []int16{10, -20, 30})
	if err != nil {
		t.Fatalf("SamplesFrame: %v", err)
	}
	m.Feed(frame)

	if gotFirst != 3 {
		t.Errorf("first channel = %d, want 3", gotFirst)
	}
	want := []int16{10, -20, 30}
	if len(gotValues) != len(want) {
		t.Fatalf("got %d values, want %d", len(gotValues), len(want))
	}
	for i := range want {
		if gotValues[i] != want[i] {
			t.Errorf("value %d = %d, want %d", i, gotValues[i], want[i])
		}
	}

	stats := m.Stats()
	if stats.Frames != 1 || stats.Samples != 3 {
		t.Errorf("stats = %+v, want 1 frame / 3 samples", stats)
	}
}

func TestFeedDispatchesLimits(t *testing.T) {
	m := New()

	type crossing struct {
		channel uint8
		kind    uint8
	}
	var got []crossing
	m.OnLimit(func(channel uint8, kind uint8) {
		got = append(got, crossing{channel, kind})
	})

	f1, err := protocol.LimitFrame(0, 2, protocol.LimitKindHigh)
	if err != nil {
		t.Fatalf("LimitFrame: %v", err)
	}
	f2, err := protocol.LimitFrame(1, 5, protocol.LimitKindLow)
	if err != nil {
		t.Fatalf("LimitFrame: %v", err)
	}
	m.Feed(f1)
	m.Feed(f2)

	if len(got) != 2 {
		t.Fatalf("got %d crossings, want 2", len(got))
	}
	if got[0] != (crossing{2, protocol.LimitKindHigh}) || got[1] != (crossing{5, protocol.LimitKindLow}) {
		t.Errorf("crossings = %v", got)
	}
	if stats := m.Stats(); stats.Limits != 2 {
		t.Errorf("limit count = %d, want 2", stats.Limits)
	}
}

func TestSequenceGapCounting(t *testing.T) {
	m := New()

	for _, seq := range []uint8{0, 1, 2, 5, 6} {
		frame, err := protocol.LimitFrame(seq, 0, protocol.LimitKindLow)
		if err != nil {
			t.Fatalf("LimitFrame: %v", err)
		}
		m.Feed(frame)
	}

	stats := m.Stats()
	if stats.Frames != 5 {
		t.Errorf("frames = %d, want 5", stats.Frames)
	}
	if stats.SeqGaps != 1 {
		t.Errorf("seq gaps = %d, want 1 (2 -> 5 skip)", stats.SeqGaps)
	}
}

func TestSequenceCounterWraps(t *testing.T) {
	m := New()

	for _, seq := range []uint8{14, 15, 0, 1} {
		frame, err := protocol.LimitFrame(seq, 0, protocol.LimitKindLow)
		if err != nil {
			t.Fatalf("LimitFrame: %v", err)
		}
		m.Feed(frame)
	}

	if stats := m.Stats(); stats.SeqGaps != 0 {
		t.Errorf("wrap counted as gap: %+v", stats)
	}
}

func TestFeedSurvivesNoise(t *testing.T) {
	m := New()

	var calls int
	m.OnLimit(func(uint8, uint8) { calls++ })

	frame, err := protocol.LimitFrame(0, 1, protocol.LimitKindHigh)
	if err != nil {
		t.Fatalf("LimitFrame: %v", err)
	}

	m.Feed([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	m.Feed([]byte{protocol.FrameSync})
	m.Feed(frame)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}
