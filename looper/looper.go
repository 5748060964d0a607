// Package looper records notes against a looping clock index and plays
// them back, making sure every note-on sent eventually gets its note-off.
package looper

import (
	"go-looper/debug"
	"go-looper/midi"
)

// Looper ties a Buffer and its Player to a sink. Every operation forwards
// the messages it produces to the sink before returning.
type Looper struct {
	buf     *Buffer
	player  *Player
	sink    midi.Sink
	channel uint8

	sent int // messages written since creation
}

// New creates a looper with the given slot capacity writing to sink on channel (0-15)
func New(capacity int, sink midi.Sink, channel uint8) *Looper {
	buf := NewBuffer(capacity)
	return &Looper{
		buf:     buf,
		player:  NewPlayer(buf),
		sink:    sink,
		channel: channel,
	}
}

// Buffer exposes the underlying store (read-only use)
func (l *Looper) Buffer() *Buffer {
	return l.buf
}

// Sent returns how many messages have been written to the sink
func (l *Looper) Sent() int {
	return l.sent
}

func (l *Looper) Recording() bool {
	return l.buf.Recording()
}

func (l *Looper) SetRecording(on bool) {
	debug.Log("record", "recording changed", "on", on)
	l.buf.SetRecording(on)
}

// NoteOn records a note-on at t; returns the slot or -1
func (l *Looper) NoteOn(t int, note, velocity uint8) int {
	idx, out := l.buf.RecordNoteOn(t, note, velocity)
	l.emit(out)
	return idx
}

// NoteOff records a note-off at t. Unmatched offs return ErrNoMatchingNoteOn.
func (l *Looper) NoteOff(t int, note, velocity uint8) (int, error) {
	return l.buf.RecordNoteOff(t, note, velocity)
}

// Tick plays time index t of a loop of loopLength ticks
func (l *Looper) Tick(t, loopLength int) {
	l.emit(l.player.Tick(t, loopLength))
}

// Restart makes the next tick begin a new pass
func (l *Looper) Restart() {
	l.player.Reset()
}

// CloseOpenNotes ends every open note at t
func (l *Looper) CloseOpenNotes(t int) {
	l.emit(l.buf.CloseOpenNotes(t))
}

// StopPlayedNotes silences everything currently sounding
func (l *Looper) StopPlayedNotes() {
	l.emit(l.buf.StopPlayedNotes())
}

// Clear silences everything and empties the buffer
func (l *Looper) Clear() {
	l.emit(l.buf.Clear())
	debug.Log("record", "buffer cleared")
}

func (l *Looper) emit(events []midi.Event) {
	if len(events) == 0 {
		return
	}
	midi.Send(l.sink, l.channel, events)
	l.sent += len(events)
}
