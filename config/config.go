package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// InputConfig selects the MIDI input and the record button
type InputConfig struct {
	PortName string `json:"portName,omitempty"` // substring match, empty = first usable port
	RecordCC int    `json:"recordCC"`           // controller number acting as the record button
	Debounce int    `json:"debounce,omitempty"` // polls a button change must persist
}

// OutputConfig defines where the looper writes notes. Both a port and a
// serial device may be set; every note goes to each.
type OutputConfig struct {
	PortName     string `json:"portName,omitempty"`
	SerialDevice string `json:"serialDevice,omitempty"`
	BaudRate     int    `json:"baudRate,omitempty"`
	Channel      int    `json:"channel"` // 1-16
	Thru         bool   `json:"thru"`
}

// LoopConfig sizes the note buffer and the loop
type LoopConfig struct {
	Capacity    int `json:"capacity"`
	Bars        int `json:"bars"`
	BeatsPerBar int `json:"beatsPerBar"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file, empty = built in
}

// Config is the main configuration structure
type Config struct {
	Input  InputConfig  `json:"input"`
	Output OutputConfig `json:"output"`
	Loop   LoopConfig   `json:"loop"`
	UI     UIConfig     `json:"ui,omitempty"`
	Debug  bool         `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			RecordCC: 64, // sustain pedal
		},
		Output: OutputConfig{
			BaudRate: 31250,
			Channel:  1,
			Thru:     true,
		},
		Loop: LoopConfig{
			Capacity:    120,
			Bars:        2,
			BeatsPerBar: 4,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-looper"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file; fields missing from the file keep their defaults
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.SaveTo(filepath.Join(dir, "config.json"))
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Normalize clamps out-of-range values back to defaults
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Input.RecordCC < 0 || c.Input.RecordCC > 127 {
		c.Input.RecordCC = def.Input.RecordCC
	}
	if c.Output.Channel < 1 || c.Output.Channel > 16 {
		c.Output.Channel = def.Output.Channel
	}
	if c.Output.BaudRate <= 0 {
		c.Output.BaudRate = def.Output.BaudRate
	}
	if c.Loop.Capacity < 1 {
		c.Loop.Capacity = def.Loop.Capacity
	}
	if c.Loop.Bars < 1 || c.Loop.Bars > 16 {
		c.Loop.Bars = def.Loop.Bars
	}
	if c.Loop.BeatsPerBar < 1 {
		c.Loop.BeatsPerBar = def.Loop.BeatsPerBar
	}
}
