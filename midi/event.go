package midi

import (
	"strconv"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// System real-time messages
const (
	Clock    uint8 = 0xF8
	Start    uint8 = 0xFA
	Continue uint8 = 0xFB
	Stop     uint8 = 0xFC
)

const (
	PPQN           = 24   // clock pulses per quarter note
	Omni     uint8 = 0x00 // channel offset added to status bytes
	Sustain  uint8 = 64   // CC number of the sustain pedal
	MaxValue uint8 = 127

	// DefaultOffVelocity is used for note-offs the looper has to invent
	DefaultOffVelocity uint8 = 64
)

// Event is a note message the looper wants sent, without its channel
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Note     uint8
	Velocity uint8
}

// On builds a note-on event
func On(note, velocity uint8) Event {
	return Event{Type: NoteOn, Note: note, Velocity: velocity}
}

// Off builds a note-off event
func Off(note, velocity uint8) Event {
	return Event{Type: NoteOff, Note: note, Velocity: velocity}
}

// Status returns the status byte for the event on the given channel (0-15)
func (e Event) Status(channel uint8) uint8 {
	return e.Type | (channel & 0x0F)
}

// Message converts the event into a gomidi message on the given channel
func (e Event) Message(channel uint8) gomidi.Message {
	if e.Type == NoteOn {
		return gomidi.NoteOn(channel, e.Note, e.Velocity)
	}
	return gomidi.NoteOffVelocity(channel, e.Note, e.Velocity)
}

func (e Event) String() string {
	kind := "off"
	if e.Type == NoteOn {
		kind = "on"
	}
	return kind + " " + NoteName(e.Note)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI note number as e.g. "C4" (60)
func NoteName(note uint8) string {
	return noteNames[note%12] + strconv.Itoa(int(note)/12-1)
}

