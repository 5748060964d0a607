package sequencer

import "go-looper/midi"

// DefaultBeatsPerBar is 4/4
const DefaultBeatsPerBar = 4

// LoopLength returns the number of clock pulses in a loop of the given bars
func LoopLength(bars, beatsPerBar int) int {
	if bars < 1 {
		bars = 1
	}
	if beatsPerBar < 1 {
		beatsPerBar = DefaultBeatsPerBar
	}
	return bars * beatsPerBar * midi.PPQN
}

// Clock turns incoming MIDI clock pulses into a looping time index
type Clock struct {
	index   int // -1 until the first pulse after Start
	length  int
	running bool
}

// NewClock creates a stopped clock looping over length pulses
func NewClock(length int) *Clock {
	if length < 1 {
		length = 1
	}
	return &Clock{index: -1, length: length}
}

// Start rewinds so the next pulse is index 0
func (c *Clock) Start() {
	c.index = -1
	c.running = true
}

// Continue resumes from the current index
func (c *Clock) Continue() {
	c.running = true
}

func (c *Clock) Stop() {
	c.running = false
}

func (c *Clock) Running() bool {
	return c.running
}

// Pulse advances one tick; ok is false while stopped
func (c *Clock) Pulse() (index int, ok bool) {
	if !c.running {
		return c.index, false
	}
	c.index = (c.index + 1) % c.length
	return c.index, true
}

// Index returns the last pulsed index (-1 before the first pulse)
func (c *Clock) Index() int {
	return c.index
}

// Position is the index notes are stamped with
func (c *Clock) Position() int {
	if c.index < 0 {
		return 0
	}
	return c.index
}

func (c *Clock) Length() int {
	return c.length
}

// SetLength changes the loop length. If the current index falls outside
// the new loop, the next pulse starts a new pass. Reports whether that happened.
func (c *Clock) SetLength(length int) bool {
	if length < 1 {
		length = 1
	}
	c.length = length
	if c.index >= length {
		c.index = length - 1
		return true
	}
	return false
}
