package looper

import (
	"reflect"
	"testing"

	"go-looper/midi"
)

type note struct {
	on, off int // off < 0 leaves the note open
	pitch   uint8
}

// recorded builds a stopped buffer holding notes in slot order
func recorded(capacity int, notes ...note) *Buffer {
	b := recordingBuffer(capacity)
	for _, n := range notes {
		b.RecordNoteOn(n.on, n.pitch, 100)
		if n.off >= 0 {
			b.RecordNoteOff(n.off, n.pitch, 50)
		}
	}
	b.SetRecording(false)
	return b
}

// pass plays ticks 0..length-1 and returns the output of each tick
func pass(p *Player, length int) [][]midi.Event {
	out := make([][]midi.Event, length)
	for t := 0; t < length; t++ {
		out[t] = p.Tick(t, length)
	}
	return out
}

func TestTickCoversEachOffOnce(t *testing.T) {
	const length = 8
	b := recorded(8,
		note{on: 0, off: 3, pitch: 60},
		note{on: 2, off: 5, pitch: 62},
		note{on: 4, off: 7, pitch: 64},
	)
	p := NewPlayer(b)

	want := [][]midi.Event{
		0: {midi.On(60, 100)},
		2: {midi.On(62, 100)},
		3: {midi.Off(60, 50)},
		4: {midi.On(64, 100)},
		5: {midi.Off(62, 50)},
		7: {midi.Off(64, 50)},
	}

	for i := 0; i < 3; i++ {
		got := pass(p, length)
		for tick := 0; tick < length; tick++ {
			if !reflect.DeepEqual(want[tick], got[tick]) {
				t.Errorf("pass %d tick %d:\nwant: %+v\ngot:  %+v", i, tick, want[tick], got[tick])
			}
		}
	}
}

func TestTickCutsOpenNoteAtLoopEnd(t *testing.T) {
	b := recorded(4, note{on: 2, off: -1, pitch: 60})
	got := pass(NewPlayer(b), 8)

	if want := []midi.Event{midi.On(60, 100)}; !reflect.DeepEqual(want, got[2]) {
		t.Errorf("tick 2:\nwant: %+v\ngot:  %+v", want, got[2])
	}
	if want := []midi.Event{midi.Off(60, midi.DefaultOffVelocity)}; !reflect.DeepEqual(want, got[7]) {
		t.Errorf("tick 7:\nwant: %+v\ngot:  %+v", want, got[7])
	}
	if b.Slot(0).Active {
		t.Errorf("note still active after loop end")
	}
}

func TestTickCutsNoteEndingPastShortenedLoop(t *testing.T) {
	// recorded with a 16 tick loop, played with 8
	b := recorded(4, note{on: 1, off: 10, pitch: 60})
	p := NewPlayer(b)

	got := pass(p, 8)
	if want := []midi.Event{midi.Off(60, 50)}; !reflect.DeepEqual(want, got[7]) {
		t.Errorf("tick 7:\nwant: %+v\ngot:  %+v", want, got[7])
	}

	// the next pass restarts the note and cuts it again
	got = pass(p, 8)
	if len(got[1]) != 1 || len(got[7]) != 1 {
		t.Errorf("second pass: tick1=%+v tick7=%+v", got[1], got[7])
	}
}

func TestTickCarriesNoteAcrossWrap(t *testing.T) {
	// held over the loop point: on at 6, off at 1 of the next pass
	b := recorded(4, note{on: 6, off: 1, pitch: 60})
	p := NewPlayer(b)

	first := pass(p, 8)
	if len(first[6]) != 1 || len(first[7]) != 0 {
		t.Fatalf("first pass: tick6=%+v tick7=%+v", first[6], first[7])
	}
	if !b.Slot(0).Active {
		t.Fatal("note should sound over the loop point")
	}

	second := pass(p, 8)
	if len(second[0]) != 0 {
		t.Errorf("tick 0 of second pass: %+v", second[0])
	}
	if want := []midi.Event{midi.Off(60, 50)}; !reflect.DeepEqual(want, second[1]) {
		t.Errorf("tick 1 of second pass:\nwant: %+v\ngot:  %+v", want, second[1])
	}
}

func TestTickSendsOnsBeforeOffs(t *testing.T) {
	b := recorded(4,
		note{on: 0, off: 2, pitch: 60},
		note{on: 2, off: 4, pitch: 61},
	)
	got := pass(NewPlayer(b), 8)

	want := []midi.Event{midi.On(61, 100), midi.Off(60, 50)}
	if !reflect.DeepEqual(want, got[2]) {
		t.Errorf("tick 2:\nwant: %+v\ngot:  %+v", want, got[2])
	}
}

func TestTickCoversSkippedTicks(t *testing.T) {
	b := recorded(4, note{on: 0, off: 3, pitch: 60})
	p := NewPlayer(b)

	p.Tick(0, 8)
	// ticks 1-4 missed; the off at 3 is still inside (0, 5]
	if want := []midi.Event{midi.Off(60, 50)}; !reflect.DeepEqual(want, p.Tick(5, 8)) {
		t.Errorf("off not delivered after skipped ticks")
	}
}

func TestTickResetsAfterLoopLengthShrinks(t *testing.T) {
	b := recorded(4, note{on: 0, off: 1, pitch: 60})
	p := NewPlayer(b)

	p.Tick(5, 8)
	if p.Previous() != 5 {
		t.Fatalf("previous = %d, want 5", p.Previous())
	}

	// previous tick is beyond the new length, so the pass restarts and
	// the off at 1 falls inside (-1, 2]
	if want := []midi.Event{midi.Off(60, 50)}; !reflect.DeepEqual(want, p.Tick(2, 4)) {
		t.Errorf("off at 1 missed after shrinking the loop")
	}
}

func TestTickTracksPrevious(t *testing.T) {
	p := NewPlayer(NewBuffer(2))
	for tick := 0; tick < 3; tick++ {
		p.Tick(tick, 4)
		if p.Previous() != tick {
			t.Errorf("after tick %d previous = %d", tick, p.Previous())
		}
	}
	p.Tick(3, 4)
	if p.Previous() != -1 {
		t.Errorf("previous = %d after last tick, want -1", p.Previous())
	}

	p.Tick(1, 4)
	p.Reset()
	if p.Previous() != -1 {
		t.Errorf("previous = %d after Reset", p.Previous())
	}
}

func TestTickIgnoresEmptySlots(t *testing.T) {
	p := NewPlayer(NewBuffer(8))
	for i, out := range pass(p, 4) {
		if len(out) != 0 {
			t.Errorf("tick %d of empty buffer: %+v", i, out)
		}
	}
}
