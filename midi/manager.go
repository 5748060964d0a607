package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-looper/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ExcludedPorts are virtual/system inputs never picked automatically
var ExcludedPorts = []string{"Midi Through", "Through Port", "Dummy"}

// DeviceEvent is emitted when an input connects/disconnects
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager keeps the looper's input port connected across hot-plugs
type DeviceManager struct {
	pattern    string // substring of the wanted port name, "" = first usable
	controller Controller
	mu         sync.RWMutex
	events     chan DeviceEvent
	pollRate   time.Duration
}

// NewDeviceManager creates a manager looking for an input matching pattern
func NewDeviceManager(pattern string) *DeviceManager {
	return &DeviceManager{
		pattern:  pattern,
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controller returns the connected input (or nil)
func (dm *DeviceManager) Controller() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.controller
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// CoreMIDI can hang on enumeration
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("devices", "port scan timed out")
		return
	}

	names := make([]string, len(inPorts))
	for i, p := range inPorts {
		names[i] = p.String()
	}

	dm.mu.RLock()
	current := dm.controller
	dm.mu.RUnlock()

	if current != nil {
		for _, name := range names {
			if name == current.ID() {
				return
			}
		}
		debug.Log("devices", "input disappeared", "port", current.ID())
		dm.mu.Lock()
		dm.controller = nil
		dm.mu.Unlock()
		current.Close()
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: current.ID()}
		return
	}

	idx := PickPort(names, dm.pattern)
	if idx < 0 {
		return
	}

	kb, err := NewKeyboardController(names[idx], inPorts[idx])
	if err != nil {
		debug.Log("devices", "connect failed", "port", names[idx], "err", err)
		return
	}
	debug.Log("devices", "input connected", "port", names[idx])

	dm.mu.Lock()
	dm.controller = kb
	dm.mu.Unlock()

	dm.events <- DeviceEvent{
		Type:       DeviceConnected,
		Controller: kb,
		ID:         kb.ID(),
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.controller != nil {
		dm.controller.Close()
		dm.controller = nil
	}
}

// PickPort returns the index of the port to use, or -1.
// With a pattern the first match wins; without one the first
// non-excluded port is used.
func PickPort(names []string, pattern string) int {
	for i, name := range names {
		if pattern != "" {
			if MatchPort(name, pattern) {
				return i
			}
			continue
		}
		if !isExcluded(name) {
			return i
		}
	}
	return -1
}

// MatchPort reports whether name contains pattern, ignoring case
func MatchPort(name, pattern string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(pattern))
}

func isExcluded(name string) bool {
	for _, pat := range ExcludedPorts {
		if MatchPort(name, pat) {
			return true
		}
	}
	return false
}
