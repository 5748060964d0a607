package midi

import (
	"fmt"

	"go-looper/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController handles a keyboard or clock source (input only)
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	events chan InputEvent
}

// NewKeyboardController opens the port and starts decoding its messages
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:     id,
		inPort: inPort,
		events: make(chan InputEvent, 256),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			evt, ok := ParseMessage(msg)
			if !ok {
				return
			}
			select {
			case kb.events <- evt:
			default:
				debug.Log("input", "event dropped", "port", id, "kind", evt.Kind)
			}
		}, gomidi.UseTimeCode(), gomidi.HandleError(func(err error) {
			debug.Log("input", "listener error", "port", id, "err", err)
		}))
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// ParseMessage decodes the messages the looper cares about
func ParseMessage(msg gomidi.Message) (InputEvent, bool) {
	var channel, note, velocity uint8

	switch {
	case msg.Is(gomidi.TimingClockMsg):
		return InputEvent{Kind: InputClock}, true
	case msg.Is(gomidi.StartMsg):
		return InputEvent{Kind: InputStart}, true
	case msg.Is(gomidi.ContinueMsg):
		return InputEvent{Kind: InputContinue}, true
	case msg.Is(gomidi.StopMsg):
		return InputEvent{Kind: InputStop}, true
	case msg.GetNoteStart(&channel, &note, &velocity):
		return InputEvent{Kind: InputNoteOn, Channel: channel, Note: note, Velocity: velocity}, true
	case msg.GetNoteOff(&channel, &note, &velocity):
		if msg[0]&0xF0 == NoteOn {
			velocity = DefaultOffVelocity
		}
		return InputEvent{Kind: InputNoteOff, Channel: channel, Note: note, Velocity: velocity}, true
	case msg.GetNoteEnd(&channel, &note):
		// note-on with zero velocity
		return InputEvent{Kind: InputNoteOff, Channel: channel, Note: note, Velocity: DefaultOffVelocity}, true
	case msg.GetControlChange(&channel, &note, &velocity):
		return InputEvent{Kind: InputControl, Channel: channel, Note: note, Velocity: velocity}, true
	}
	return InputEvent{}, false
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Events() <-chan InputEvent {
	return kb.events
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.events)
	return nil
}
