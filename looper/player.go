package looper

import (
	"go-looper/debug"
	"go-looper/midi"
)

// Player replays a Buffer against a looping time index
type Player struct {
	buf  *Buffer
	prev int // time index of the previous tick in this pass, -1 at pass start
}

// NewPlayer creates a player for b
func NewPlayer(b *Buffer) *Player {
	return &Player{buf: b, prev: -1}
}

// Reset forgets the previous tick so the next one starts a fresh pass
func (p *Player) Reset() {
	p.prev = -1
}

// Previous returns the time index of the last tick in the current pass
func (p *Player) Previous() int {
	return p.prev
}

// Tick plays time index t of a loop of the given length and returns the
// messages to send, note-ons first. Offs fire when their time lies in
// (previous tick, t]. On the last tick of the pass any note still
// sounding whose off lies past the end of the loop, or was never
// recorded, is cut.
func (p *Player) Tick(t, loopLength int) []midi.Event {
	if p.prev >= loopLength {
		p.prev = -1
	}

	slots := p.buf.slots
	var out []midi.Event

	for i := range slots {
		s := &slots[i]
		if !s.Empty() && s.TimeOn == t {
			s.Active = true
			out = append(out, midi.On(s.Note, s.OnVelocity))
		}
	}

	for i := range slots {
		s := &slots[i]
		if !s.Empty() && s.TimeOff > p.prev && s.TimeOff <= t {
			out = append(out, s.off())
		}
	}

	last := loopLength - 1
	if t == last {
		for i := range slots {
			s := &slots[i]
			if s.Active && (s.TimeOff > t || s.Open()) {
				debug.Log("play", "cutting note at loop end", "slot", i, "note", s.Note, "off", s.TimeOff)
				out = append(out, s.off())
			}
		}
	}

	if t < last {
		p.prev = t
	} else {
		p.prev = -1
	}
	return out
}
