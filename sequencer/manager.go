package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-looper/debug"
	"go-looper/looper"
	"go-looper/midi"
)

// MaxBars bounds the loop length the UI can dial in
const MaxBars = 16

// Button poll rate
const buttonPoll = 5 * time.Millisecond

// Options configures a Manager
type Options struct {
	Capacity    int
	Bars        int
	BeatsPerBar int
	Channel     uint8 // output channel 0-15
	RecordCC    uint8 // controller acting as the record button (0 is CC 0)
	Debounce    int   // polls a button change must persist
	Thru        bool  // echo live input to the sink
}

// Status is a snapshot for the UI
type Status struct {
	Recording bool
	Running   bool
	Thru      bool
	Index     int
	Length    int
	Bars      int
	Capacity  int
	Occupied  int
	Next      int
	Sent      int
	Input     string
	Slots     []looper.NoteEvent
}

// Manager owns the looper and feeds it from one goroutine: MIDI input,
// record button polling and UI commands are all serialized through Run.
type Manager struct {
	looper *looper.Looper
	clock  *Clock
	button *Button
	pedal  bool // raw record button level
	sink   midi.Sink
	opts   Options

	inputs chan midi.InputEvent
	cmds   chan func()

	mu        sync.RWMutex
	status    Status
	inputName string

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager writing to sink
func NewManager(sink midi.Sink, opts Options) *Manager {
	if opts.Bars < 1 {
		opts.Bars = 1
	}
	if opts.Bars > MaxBars {
		opts.Bars = MaxBars
	}

	m := &Manager{
		looper:     looper.New(opts.Capacity, sink, opts.Channel),
		clock:      NewClock(LoopLength(opts.Bars, opts.BeatsPerBar)),
		sink:       sink,
		opts:       opts,
		inputs:     make(chan midi.InputEvent, 256),
		cmds:       make(chan func(), 16),
		UpdateChan: make(chan struct{}, 1),
	}
	m.button = NewButton(func() bool { return m.pedal }, opts.Debounce)
	m.publish()
	return m
}

// Run processes input and commands until ctx is done (blocking - run in goroutine)
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(buttonPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.looper.StopPlayedNotes()
			return
		case evt := <-m.inputs:
			m.HandleInput(evt)
		case f := <-m.cmds:
			f()
			m.notifyUpdate()
		case <-ticker.C:
			m.pollButton()
		}
	}
}

// SetInput starts forwarding a controller's events into the run loop
func (m *Manager) SetInput(ctrl midi.Controller) {
	m.mu.Lock()
	if ctrl == nil {
		m.inputName = ""
	} else {
		m.inputName = ctrl.ID()
	}
	m.mu.Unlock()

	if ctrl == nil {
		m.do(m.publish)
		return
	}

	go func() {
		for evt := range ctrl.Events() {
			select {
			case m.inputs <- evt:
			default:
				debug.Log("input", "manager queue full, dropped", "kind", evt.Kind)
			}
		}
	}()
	m.do(m.publish)
}

// HandleInput applies one decoded MIDI message. Only call from the run loop.
func (m *Manager) HandleInput(evt midi.InputEvent) {
	switch evt.Kind {
	case midi.InputClock:
		idx, ok := m.clock.Pulse()
		if !ok {
			return
		}
		m.looper.Tick(idx, m.clock.Length())
		debug.LogEvery(96, "clock", "pulse", "index", idx)

	case midi.InputStart:
		debug.Log("clock", "start")
		m.clock.Start()
		m.looper.Restart()

	case midi.InputContinue:
		debug.Log("clock", "continue", "index", m.clock.Index())
		m.clock.Continue()

	case midi.InputStop:
		debug.Log("clock", "stop", "index", m.clock.Index())
		m.clock.Stop()
		m.looper.CloseOpenNotes(m.clock.Position())
		m.looper.StopPlayedNotes()

	case midi.InputNoteOn:
		// evictions go out before the live note they make room for
		if idx := m.looper.NoteOn(m.clock.Position(), evt.Note, evt.Velocity); idx >= 0 {
			debug.Log("record", "note on", "slot", idx, "note", evt.Note, "t", m.clock.Position())
		}
		m.echo(midi.On(evt.Note, evt.Velocity))

	case midi.InputNoteOff:
		m.echo(midi.Off(evt.Note, evt.Velocity))
		idx, err := m.looper.NoteOff(m.clock.Position(), evt.Note, evt.Velocity)
		switch {
		case errors.Is(err, looper.ErrNoMatchingNoteOn):
			debug.Log("record", "unmatched note off dropped", "note", evt.Note)
		case err == nil:
			debug.Log("record", "note off", "slot", idx, "note", evt.Note, "t", m.clock.Position())
		}

	case midi.InputControl:
		if evt.Note != m.opts.RecordCC {
			return
		}
		m.pedal = evt.Velocity >= 64
		m.pollButton()
		return
	}

	m.publish()
	if evt.Kind != midi.InputClock || m.clock.Index()%midi.PPQN == 0 {
		m.notifyUpdate()
	}
}

func (m *Manager) echo(e midi.Event) {
	if !m.opts.Thru {
		return
	}
	midi.Send(m.sink, m.opts.Channel, []midi.Event{e})
}

func (m *Manager) pollButton() {
	m.button.Update()
	if m.button.Pressed() {
		m.toggleRecording()
		m.publish()
		m.notifyUpdate()
	}
}

func (m *Manager) toggleRecording() {
	if m.looper.Recording() {
		// close held notes while the offs can still be recorded
		m.looper.CloseOpenNotes(m.clock.Position())
		m.looper.SetRecording(false)
		return
	}
	m.looper.SetRecording(true)
}

func (m *Manager) setBars(bars int) {
	if bars < 1 || bars > MaxBars {
		return
	}
	m.opts.Bars = bars
	if m.clock.SetLength(LoopLength(bars, m.opts.BeatsPerBar)) {
		// the loop end was skipped, nothing got cut there
		m.looper.StopPlayedNotes()
	}
	debug.Log("loop", "length changed", "bars", bars, "pulses", m.clock.Length())
	m.publish()
}

// UI commands, executed on the run loop

// ToggleRecording flips recording on/off
func (m *Manager) ToggleRecording() {
	m.do(func() {
		m.toggleRecording()
		m.publish()
	})
}

// Clear silences and erases the loop
func (m *Manager) Clear() {
	m.do(func() {
		m.looper.Clear()
		m.publish()
	})
}

// SetBars changes the loop length in bars (1-MaxBars)
func (m *Manager) SetBars(bars int) {
	m.do(func() { m.setBars(bars) })
}

// ToggleThru flips live input echo
func (m *Manager) ToggleThru() {
	m.do(func() {
		m.opts.Thru = !m.opts.Thru
		m.publish()
	})
}

// Panic sends an off for everything sounding
func (m *Manager) Panic() {
	m.do(m.looper.StopPlayedNotes)
}

func (m *Manager) do(f func()) {
	select {
	case m.cmds <- f:
	default:
		debug.Log("ui", "command queue full, dropped")
	}
}

// publish snapshots looper state for readers outside the run loop
func (m *Manager) publish() {
	buf := m.looper.Buffer()
	s := Status{
		Recording: m.looper.Recording(),
		Running:   m.clock.Running(),
		Thru:      m.opts.Thru,
		Index:     m.clock.Index(),
		Length:    m.clock.Length(),
		Bars:      m.opts.Bars,
		Capacity:  buf.Len(),
		Occupied:  buf.Occupied(),
		Next:      buf.Next(),
		Sent:      m.looper.Sent(),
		Slots:     buf.Slots(),
	}

	m.mu.Lock()
	s.Input = m.inputName
	m.status = s
	m.mu.Unlock()
}

// Status returns the latest snapshot
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
