package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-looper/looper"
	"go-looper/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		monitor(arg(2))
	case "serial":
		testSerial(arg(2))
	case "demo":
		demo()
	default:
		usage()
	}
}

func arg(i int) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list             - List MIDI and serial ports")
	fmt.Println("  monitor [port]   - Print decoded input (notes, clock, cc)")
	fmt.Println("  serial <device>  - Play a C major arpeggio on a serial MIDI out")
	fmt.Println("  demo             - Record and replay a loop offline, print the output")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}

	fmt.Println("\n=== Serial Ports ===")
	ports, err := midi.SerialPorts()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for i, p := range ports {
		fmt.Printf("  %d: %s\n", i, p)
	}
}

func monitor(pattern string) {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, p := range ins {
		names[i] = p.String()
	}
	idx := midi.PickPort(names, pattern)
	if idx < 0 {
		fmt.Println("No matching input found")
		return
	}

	kb, err := midi.NewKeyboardController(names[idx], ins[idx])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer kb.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", names[idx])

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	clocks := 0
	for {
		select {
		case <-sig:
			return
		case evt := <-kb.Events():
			switch evt.Kind {
			case midi.InputClock:
				// one line per quarter note
				clocks++
				if clocks%midi.PPQN == 0 {
					fmt.Printf("[%s] clock  beat %d\n", time.Now().Format("15:04:05.000"), clocks/midi.PPQN)
				}
			case midi.InputNoteOn, midi.InputNoteOff:
				fmt.Printf("[%s] %-8s ch%-2d %-4s vel %d\n", time.Now().Format("15:04:05.000"), evt.Kind, evt.Channel+1, midi.NoteName(evt.Note), evt.Velocity)
			default:
				fmt.Printf("[%s] %-8s %d %d\n", time.Now().Format("15:04:05.000"), evt.Kind, evt.Note, evt.Velocity)
			}
		}
	}
}

func testSerial(device string) {
	if device == "" {
		fmt.Println("Usage: miditest serial <device>")
		return
	}
	sink, err := midi.OpenSerialSink(device, midi.BaudRate)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer sink.Close()

	for _, note := range []uint8{60, 64, 67, 72} {
		fmt.Printf("Playing %s\n", midi.NoteName(note))
		midi.Send(sink, 0, []midi.Event{midi.On(note, 100)})
		time.Sleep(200 * time.Millisecond)
		midi.Send(sink, 0, []midi.Event{midi.Off(note, midi.DefaultOffVelocity)})
	}
	fmt.Println("Done!")
}

// demo records a short phrase into a 4-slot looper, overflows it, and
// plays two passes of a one-beat loop, printing every sink write.
func demo() {
	sink := &midi.RecordingSink{}
	l := looper.New(4, sink, 0)
	l.SetRecording(true)

	phrase := []struct {
		on, off int
		note    uint8
	}{
		{0, 5, 60}, {6, 11, 64}, {12, 17, 67}, {18, -1, 72}, {20, 23, 76},
	}
	for _, p := range phrase {
		l.NoteOn(p.on, p.note, 100)
		if p.off >= 0 {
			l.NoteOff(p.off, p.note, 64)
		}
	}
	l.SetRecording(false)

	dump := func(label string) {
		for _, w := range sink.Writes() {
			kind := "off"
			if w.Code&0xF0 == midi.NoteOn {
				kind = "on "
			}
			fmt.Printf("%-10s %s %-4s vel %d\n", label, kind, midi.NoteName(w.Pitch), w.Velocity)
		}
		sink.Reset()
	}
	dump("record")

	for pass := 0; pass < 2; pass++ {
		for t := 0; t < midi.PPQN; t++ {
			l.Tick(t, midi.PPQN)
			dump(fmt.Sprintf("pass%d t%02d", pass+1, t))
		}
	}
}
