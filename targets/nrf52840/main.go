//go:build nrf52840

package main

import (
	"machine"
	"runtime/interrupt"
	"time"

	"saadc/core"
	"saadc/nrf52"
	"saadc/protocol"
)

// Firmware for the nRF52840: scans two analog inputs continuously and
// streams every filled buffer over USB CDC as protocol frames. A high
// threshold on channel 0 demonstrates the limit comparators.

const (
	scanBufferLen = 16 // samples per delivered buffer, interleaved ch0/ch1
	limitRingSize = 16
)

type limitCrossing struct {
	channel uint8
	kind    core.LimitKind
}

var (
	drv *core.Driver

	// Double buffer for continuous delivery: while one fills, the other is
	// being shipped and requeued.
	bufA [scanBufferLen]core.Value
	bufB [scanBufferLen]core.Value

	// Written by the event handler in interrupt context, drained by the main
	// loop under an interrupt mask.
	pendingDone []core.Value
	limitRing   [limitRingSize]limitCrossing
	limitHead   uint8
	limitTail   uint8
	limitDrops  uint32

	frameSeq   uint8
	payloadOut = protocol.NewScratchOutput()
	frameOut   = protocol.NewScratchOutput()
)

func main() {
	// Let USB CDC enumerate before the stream starts.
	time.Sleep(2 * time.Second)

	drv = core.New(nrf52.NewRegisters())

	cfg := core.DefaultConfig()
	cfg.Resolution = core.Res12Bit
	if err := drv.Init(&cfg, handleADCEvent); err != nil {
		fail("init", err)
	}

	if err := drv.ChannelInit(0, core.DefaultChannelConfigSE(core.InputAIN0)); err != nil {
		fail("channel 0", err)
	}
	if err := drv.ChannelInit(1, core.DefaultChannelConfigSE(core.InputAIN1)); err != nil {
		fail("channel 1", err)
	}

	// Alert when channel 0 rises above ~90% of the 12-bit range.
	drv.LimitSet(0, core.LimitLowDisabled, 3700)

	if err := drv.BufferConvert(bufA[:]); err != nil {
		fail("buffer A", err)
	}
	if err := drv.BufferConvert(bufB[:]); err != nil {
		fail("buffer B", err)
	}
	if err := drv.Sample(); err != nil {
		fail("sample", err)
	}

	for {
		done, crossing, haveCrossing := drainEvents()

		if done != nil {
			sendSamples(done)
			// Hand the shipped buffer back and kick the next fill.
			if err := drv.BufferConvert(done); err == nil {
				_ = drv.Sample()
			}
		}
		if haveCrossing {
			sendLimit(crossing)
		}
		if done == nil && !haveCrossing {
			time.Sleep(100 * time.Microsecond)
		}
	}
}

// drainEvents takes at most one completed buffer and one limit crossing from
// the interrupt handler's hand-off slots.
func drainEvents() (done []core.Value, crossing limitCrossing, ok bool) {
	state := interrupt.Disable()
	done = pendingDone
	pendingDone = nil
	if limitHead != limitTail {
		crossing = limitRing[limitHead]
		limitHead = (limitHead + 1) % limitRingSize
		ok = true
	}
	interrupt.Restore(state)
	return done, crossing, ok
}

// handleADCEvent runs in interrupt context: record and return.
func handleADCEvent(ev core.Event) {
	switch ev.Type {
	case core.EventDone:
		pendingDone = ev.Buffer
	case core.EventLimit:
		next := (limitTail + 1) % limitRingSize
		if next == limitHead {
			limitDrops++
			return
		}
		limitRing[limitTail] = limitCrossing{channel: ev.Channel, kind: ev.Kind}
		limitTail = next
	}
}

func sendSamples(values []core.Value) {
	payloadOut.Reset()
	protocol.EncodeSamples(payloadOut, 0, values)

	frameOut.Reset()
	if err := protocol.EncodeFrame(frameOut, nextSeq(), payloadOut.Result()); err != nil {
		return
	}
	writeAll(frameOut.Result())
}

func sendLimit(c limitCrossing) {
	payloadOut.Reset()
	kind := uint8(protocol.LimitKindLow)
	if c.kind == core.LimitHigh {
		kind = protocol.LimitKindHigh
	}
	protocol.EncodeLimit(payloadOut, c.channel, kind)

	frameOut.Reset()
	if err := protocol.EncodeFrame(frameOut, nextSeq(), payloadOut.Result()); err != nil {
		return
	}
	writeAll(frameOut.Result())
}

func nextSeq() uint8 {
	seq := frameSeq
	frameSeq = (frameSeq + 1) & 0x0F
	return seq
}

// writeAll pushes a frame out over USB CDC, tolerating partial writes.
func writeAll(data []byte) {
	written := 0
	for written < len(data) {
		n, err := machine.Serial.Write(data[written:])
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(100 * time.Microsecond)
			continue
		}
		written += n
	}
}

func fail(what string, err error) {
	for {
		println("saadc:", what, "failed:", err.Error())
		time.Sleep(time.Second)
	}
}
