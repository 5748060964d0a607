package midi

// InputKind identifies what an incoming message means to the looper
type InputKind int

const (
	InputNoteOn InputKind = iota
	InputNoteOff
	InputControl
	InputClock
	InputStart
	InputContinue
	InputStop
)

func (k InputKind) String() string {
	switch k {
	case InputNoteOn:
		return "note-on"
	case InputNoteOff:
		return "note-off"
	case InputControl:
		return "cc"
	case InputClock:
		return "clock"
	case InputStart:
		return "start"
	case InputContinue:
		return "continue"
	case InputStop:
		return "stop"
	}
	return "unknown"
}

// InputEvent is a decoded message from an input port.
// For InputControl, Note holds the controller number and Velocity its value.
type InputEvent struct {
	Kind     InputKind
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// Controller is a MIDI input the looper listens to
type Controller interface {
	ID() string

	// Notes, controllers and real-time clock, in arrival order
	Events() <-chan InputEvent

	Close() error
}
