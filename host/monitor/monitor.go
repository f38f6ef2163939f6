package monitor

import (
	"fmt"
	"io"
	"sync"

	"saadc/host/serial"
	"saadc/protocol"
)

// SamplesHandler receives every decoded sample buffer. Values interleave in
// scan order starting at FirstChannel.
type SamplesHandler func(firstChannel uint8, values []int16)

// LimitHandler receives threshold crossing notifications.
type LimitHandler func(channel uint8, kind uint8)

// Stats counts what the read loop has seen so far.
type Stats struct {
	Frames     uint64 // frames decoded
	Samples    uint64 // individual sample values received
	Limits     uint64 // limit notifications received
	SeqGaps    uint64 // sequence counter discontinuities
	BadPayload uint64 // frames whose payload failed to parse
}

// Monitor reads the telemetry stream from a converter board and dispatches
// decoded messages to registered handlers.
type Monitor struct {
	port serial.Port
	dec  *protocol.Decoder

	onSamples SamplesHandler
	onLimit   LimitHandler

	mu      sync.Mutex
	stats   Stats
	lastSeq uint8
	seenSeq bool

	connected bool
}

// New creates a monitor (not yet connected)
func New() *Monitor {
	return &Monitor{
		dec: protocol.NewDecoder(),
	}
}

// OnSamples registers the sample buffer handler.
func (m *Monitor) OnSamples(h SamplesHandler) {
	m.onSamples = h
}

// OnLimit registers the threshold crossing handler.
func (m *Monitor) OnLimit(h LimitHandler) {
	m.onLimit = h
}

// Connect opens the device with the default serial configuration.
func (m *Monitor) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the device with a custom serial config.
func (m *Monitor) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	m.port = port
	m.connected = true
	return nil
}

// Close closes the connection.
func (m *Monitor) Close() error {
	m.connected = false
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// IsConnected returns whether the monitor holds an open port.
func (m *Monitor) IsConnected() bool {
	return m.connected
}

// Run reads the stream until the port reports EOF or a read error.
// io.EOF is a normal shutdown and returns nil.
func (m *Monitor) Run() error {
	if !m.connected {
		return fmt.Errorf("not connected")
	}

	buf := make([]byte, 256)
	for {
		n, err := m.port.Read(buf)
		if n > 0 {
			m.Feed(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("serial read: %w", err)
		}
	}
}

// Feed pushes raw stream bytes through the decoder and dispatches every
// complete message. Split out from Run so tests and replay tools can drive
// the monitor without a serial port.
func (m *Monitor) Feed(data []byte) {
	m.dec.Feed(data)

	for {
		frame, ok := m.dec.Next()
		if !ok {
			return
		}
		m.account(frame.Seq)

		msg, err := protocol.DecodeMessage(frame.Payload)
		if err != nil {
			m.mu.Lock()
			m.stats.BadPayload++
			m.mu.Unlock()
			continue
		}

		switch msg.Kind {
		case protocol.MsgSamples:
			m.mu.Lock()
			m.stats.Samples += uint64(len(msg.Values))
			m.mu.Unlock()
			if m.onSamples != nil {
				m.onSamples(msg.FirstChannel, msg.Values)
			}
		case protocol.MsgLimit:
			m.mu.Lock()
			m.stats.Limits++
			m.mu.Unlock()
			if m.onLimit != nil {
				m.onLimit(msg.Channel, msg.LimitKind)
			}
		}
	}
}

// Stats returns a snapshot of the counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Monitor) account(seq uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Frames++
	if m.seenSeq && seq != (m.lastSeq+1)&0x0F {
		m.stats.SeqGaps++
	}
	m.lastSeq = seq
	m.seenSeq = true
}
