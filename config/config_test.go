package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Input.PortName = "Keystep"
	cfg.Output.SerialDevice = "/dev/ttyACM0"
	cfg.Loop.Bars = 4
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, got) {
		t.Errorf("round trip:\nwant: %+v\ngot:  %+v", cfg, got)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"loop":{"bars":8}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Loop.Bars != 8 || cfg.Loop.Capacity != 120 || cfg.Input.RecordCC != 64 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Input:  InputConfig{RecordCC: 300},
		Output: OutputConfig{Channel: 17},
		Loop:   LoopConfig{Capacity: -1, Bars: 99},
	}
	cfg.Normalize()

	def := DefaultConfig()
	if cfg.Input.RecordCC != def.Input.RecordCC || cfg.Output.Channel != def.Output.Channel ||
		cfg.Loop.Capacity != def.Loop.Capacity || cfg.Loop.Bars != def.Loop.Bars ||
		cfg.Loop.BeatsPerBar != def.Loop.BeatsPerBar || cfg.Output.BaudRate != def.Output.BaudRate {
		t.Errorf("normalized config %+v", cfg)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
