package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-looper/config"
	"go-looper/debug"
	"go-looper/midi"
	"go-looper/sequencer"
	"go-looper/theme"
	"go-looper/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Input.PortName, "in", cfg.Input.PortName, "MIDI input port (substring)")
	flag.StringVar(&cfg.Output.PortName, "out", cfg.Output.PortName, "MIDI output port (substring)")
	flag.StringVar(&cfg.Output.SerialDevice, "serial", cfg.Output.SerialDevice, "serial device for DIN MIDI out")
	flag.IntVar(&cfg.Output.Channel, "channel", cfg.Output.Channel, "output channel 1-16")
	flag.IntVar(&cfg.Loop.Bars, "bars", cfg.Loop.Bars, "loop length in bars")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log to ~/.config/go-looper/debug.log")
	save := flag.Bool("save", false, "write the effective settings to the config file")
	flag.Parse()
	cfg.Normalize()

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Warning: debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	if *save {
		if err := cfg.Save(); err != nil {
			fmt.Printf("Warning: save config: %v\n", err)
		}
	}

	palette := theme.DefaultPalette()
	if cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			palette = p
		}
	}
	th := theme.New(palette)

	sink, closeSinks, err := openSinks(cfg.Output)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeSinks()

	manager := sequencer.NewManager(sink, sequencer.Options{
		Capacity:    cfg.Loop.Capacity,
		Bars:        cfg.Loop.Bars,
		BeatsPerBar: cfg.Loop.BeatsPerBar,
		Channel:     uint8(cfg.Output.Channel - 1),
		RecordCC:    uint8(cfg.Input.RecordCC),
		Debounce:    cfg.Input.Debounce,
		Thru:        cfg.Output.Thru,
	})

	// Input hot-plug
	deviceMgr := midi.NewDeviceManager(cfg.Input.PortName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	done := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(done)
	}()

	m := tui.NewModel(manager, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()

	// let the manager silence the output before the sinks close
	cancel()
	<-done

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// openSinks opens every configured output and returns them as one sink
func openSinks(out config.OutputConfig) (midi.Sink, func(), error) {
	var sinks midi.MultiSink
	var closers []func() error

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if out.PortName != "" {
		ps, err := midi.OpenPortSink(out.PortName)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, ps)
		closers = append(closers, ps.Close)
	}
	if out.SerialDevice != "" {
		ss, err := midi.OpenSerialSink(out.SerialDevice, out.BaudRate)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, ss)
		closers = append(closers, ss.Close)
	}
	if len(sinks) == 0 {
		return nil, nil, fmt.Errorf("no output configured: set -out or -serial")
	}
	return sinks, closeAll, nil
}
