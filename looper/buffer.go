package looper

import (
	"errors"

	"go-looper/debug"
	"go-looper/midi"
)

// DefaultCapacity is the number of note slots a Buffer holds by default
const DefaultCapacity = 120

var (
	// ErrNoMatchingNoteOn is returned for a note-off with no open slot for its pitch.
	// Callers drop the off.
	ErrNoMatchingNoteOn = errors.New("no matching note-on")

	// ErrNotRecording is returned when an observation arrives while recording is off
	ErrNotRecording = errors.New("not recording")
)

// NoteEvent is one slot of the circular store.
// TimeOn == -1 marks an empty slot; TimeOff == -1 on an occupied slot marks an open note.
type NoteEvent struct {
	Active      bool // on sent to the sink, off not yet sent
	TimeOn      int
	TimeOff     int
	Note        uint8
	OnVelocity  uint8
	OffVelocity uint8
}

// Empty reports whether the slot holds nothing
func (n NoteEvent) Empty() bool {
	return n.TimeOn < 0
}

// Open reports whether the slot holds a note whose off was never recorded
func (n NoteEvent) Open() bool {
	return n.TimeOn > -1 && n.TimeOff < 0
}

func (n *NoteEvent) reset() {
	*n = NoteEvent{TimeOn: -1, TimeOff: -1}
}

// off returns the note-off for this slot and marks it silent.
// Open notes have no recorded off velocity, so they get the default.
func (n *NoteEvent) off() midi.Event {
	vel := n.OffVelocity
	if n.Open() {
		vel = midi.DefaultOffVelocity
	}
	n.Active = false
	return midi.Off(n.Note, vel)
}

// Buffer is a fixed-capacity circular store of recorded notes.
// It is not safe for concurrent use.
type Buffer struct {
	slots     []NoteEvent
	next      int // slot the next note-on is written to
	recording bool
}

// NewBuffer creates an empty buffer; capacity < 1 means DefaultCapacity
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	b := &Buffer{slots: make([]NoteEvent, capacity)}
	for i := range b.slots {
		b.slots[i].reset()
	}
	return b
}

// Len returns the capacity
func (b *Buffer) Len() int {
	return len(b.slots)
}

// Slot returns a copy of slot i
func (b *Buffer) Slot(i int) NoteEvent {
	return b.slots[i]
}

// Slots returns a copy of every slot
func (b *Buffer) Slots() []NoteEvent {
	out := make([]NoteEvent, len(b.slots))
	copy(out, b.slots)
	return out
}

// Next returns the write cursor
func (b *Buffer) Next() int {
	return b.next
}

// Occupied counts non-empty slots
func (b *Buffer) Occupied() int {
	n := 0
	for i := range b.slots {
		if !b.slots[i].Empty() {
			n++
		}
	}
	return n
}

func (b *Buffer) Recording() bool {
	return b.recording
}

func (b *Buffer) SetRecording(on bool) {
	b.recording = on
}

// RecordNoteOn stores a note-on at time t and returns its slot, or -1 when
// not recording. If the cursor slot still holds an open or sounding note,
// the returned events carry its forced note-off.
func (b *Buffer) RecordNoteOn(t int, note, velocity uint8) (int, []midi.Event) {
	if !b.recording {
		return -1, nil
	}

	idx := b.next
	out := b.evict(idx)

	s := &b.slots[idx]
	s.reset()
	s.TimeOn = t
	s.Note = note
	s.OnVelocity = velocity

	b.next = (b.next + 1) % len(b.slots)
	return idx, out
}

// evict frees slot idx for reuse
func (b *Buffer) evict(idx int) []midi.Event {
	s := &b.slots[idx]
	if s.Empty() {
		return nil
	}
	if !s.Active && !s.Open() {
		return nil
	}
	debug.Log("evict", "forcing off before overwrite", "slot", idx, "note", s.Note, "active", s.Active)
	return []midi.Event{s.off()}
}

// RecordNoteOff closes the open slot for note at time t
func (b *Buffer) RecordNoteOff(t int, note, velocity uint8) (int, error) {
	if !b.recording {
		return -1, ErrNotRecording
	}
	idx := b.findOpen(note)
	if idx < 0 {
		return -1, ErrNoMatchingNoteOn
	}
	b.slots[idx].TimeOff = t
	b.slots[idx].OffVelocity = velocity
	return idx, nil
}

// findOpen scans from slot 0 and returns the first open slot for note.
// With overlapping same-pitch notes this is the lowest index, not the
// most recent one.
func (b *Buffer) findOpen(note uint8) int {
	for i := range b.slots {
		if b.slots[i].Note == note && b.slots[i].Open() {
			return i
		}
	}
	return -1
}

// CloseOpenNotes ends every open note at time t with the default velocity,
// recording the off where recording is on, and returns the offs to send now.
func (b *Buffer) CloseOpenNotes(t int) []midi.Event {
	var out []midi.Event
	for i := range b.slots {
		s := &b.slots[i]
		if !s.Open() {
			continue
		}
		out = append(out, midi.Off(s.Note, midi.DefaultOffVelocity))
		s.Active = false
		if _, err := b.RecordNoteOff(t, s.Note, midi.DefaultOffVelocity); err != nil {
			debug.Log("record", "open note left unclosed", "slot", i, "note", s.Note, "err", err)
		}
	}
	return out
}

// StopPlayedNotes returns an off for every sounding slot
func (b *Buffer) StopPlayedNotes() []midi.Event {
	var out []midi.Event
	for i := range b.slots {
		if b.slots[i].Active {
			out = append(out, b.slots[i].off())
		}
	}
	return out
}

// Clear silences every sounding slot, then empties the buffer
func (b *Buffer) Clear() []midi.Event {
	out := b.StopPlayedNotes()
	for i := range b.slots {
		b.slots[i].reset()
	}
	b.next = 0
	return out
}
