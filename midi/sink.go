package midi

import (
	"fmt"
	"sync"

	"go-looper/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Sink receives note messages as raw status/pitch/velocity triples.
// Writes are synchronous and assumed to succeed; implementations log failures.
type Sink interface {
	WriteNote(code, pitch, velocity byte)
}

// Send forwards events to the sink in order on the given channel
func Send(s Sink, channel uint8, events []Event) {
	if s == nil {
		return
	}
	for _, e := range events {
		s.WriteNote(e.Status(channel), e.Note, e.Velocity)
	}
}

// PortSink writes to a gomidi output port
type PortSink struct {
	name string
	out  drivers.Out
	send func(msg gomidi.Message) error
}

// OpenPortSink opens the first output port whose name contains pattern
func OpenPortSink(pattern string) (*PortSink, error) {
	var out drivers.Out
	for _, p := range gomidi.GetOutPorts() {
		if MatchPort(p.String(), pattern) {
			out = p
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("output %q not found", pattern)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", out.String(), err)
	}
	debug.Log("midi", "output opened", "port", out.String())
	return &PortSink{name: out.String(), out: out, send: send}, nil
}

func (p *PortSink) Name() string {
	return p.name
}

func (p *PortSink) WriteNote(code, pitch, velocity byte) {
	ev := Event{Type: code & 0xF0, Note: pitch, Velocity: velocity}
	if err := p.send(ev.Message(code & 0x0F)); err != nil {
		debug.Log("midi", "port write failed", "port", p.name, "err", err)
	}
}

func (p *PortSink) Close() error {
	return p.out.Close()
}

// MultiSink fans every write out to all of its sinks
type MultiSink []Sink

func (m MultiSink) WriteNote(code, pitch, velocity byte) {
	for _, s := range m {
		s.WriteNote(code, pitch, velocity)
	}
}

// Write is one captured sink call
type Write struct {
	Code, Pitch, Velocity byte
}

// RecordingSink keeps every write in memory (tests, miditest monitor)
type RecordingSink struct {
	mu     sync.Mutex
	writes []Write
}

func (r *RecordingSink) WriteNote(code, pitch, velocity byte) {
	r.mu.Lock()
	r.writes = append(r.writes, Write{Code: code, Pitch: pitch, Velocity: velocity})
	r.mu.Unlock()
}

// Writes returns a copy of everything written so far
func (r *RecordingSink) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Write, len(r.writes))
	copy(out, r.writes)
	return out
}

// Reset drops the captured writes
func (r *RecordingSink) Reset() {
	r.mu.Lock()
	r.writes = nil
	r.mu.Unlock()
}
