package midi

import (
	"fmt"

	"go-looper/debug"

	"go.bug.st/serial"
)

// BaudRate is the DIN MIDI wire speed
const BaudRate = 31250

// SerialSink writes raw 3-byte note messages to a serial device,
// e.g. an Arduino UART bridged to a 5-pin MIDI out.
type SerialSink struct {
	name string
	port serial.Port
}

// OpenSerialSink opens the named serial device at the given baud rate
// (0 means BaudRate).
func OpenSerialSink(name string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = BaudRate
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %q: %w", name, err)
	}
	debug.Log("serial", "port opened", "device", name, "baud", baud)
	return &SerialSink{name: name, port: p}, nil
}

func (s *SerialSink) WriteNote(code, pitch, velocity byte) {
	if _, err := s.port.Write([]byte{code, pitch, velocity}); err != nil {
		debug.Log("serial", "write error", "device", s.name, "err", err)
	}
}

func (s *SerialSink) Close() error {
	debug.Log("serial", "closing port", "device", s.name)
	return s.port.Close()
}

// SerialPorts lists the serial devices present on the system
func SerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
