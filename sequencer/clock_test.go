package sequencer

import "testing"

func TestLoopLength(t *testing.T) {
	tests := []struct {
		bars, beats, want int
	}{
		{1, 4, 96},
		{2, 4, 192},
		{1, 3, 72},
		{0, 0, 96},
	}
	for _, tt := range tests {
		if got := LoopLength(tt.bars, tt.beats); got != tt.want {
			t.Errorf("LoopLength(%d, %d) = %d, want %d", tt.bars, tt.beats, got, tt.want)
		}
	}
}

func TestClockIgnoresPulsesWhileStopped(t *testing.T) {
	c := NewClock(4)
	if _, ok := c.Pulse(); ok {
		t.Fatal("stopped clock advanced")
	}
	if c.Position() != 0 || c.Index() != -1 {
		t.Errorf("index=%d position=%d", c.Index(), c.Position())
	}
}

func TestClockWraps(t *testing.T) {
	c := NewClock(3)
	c.Start()

	var got []int
	for i := 0; i < 7; i++ {
		idx, ok := c.Pulse()
		if !ok {
			t.Fatal("running clock refused a pulse")
		}
		got = append(got, idx)
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestClockStopContinue(t *testing.T) {
	c := NewClock(8)
	c.Start()
	c.Pulse()
	c.Pulse()
	c.Stop()
	c.Pulse()
	c.Continue()
	if idx, _ := c.Pulse(); idx != 2 {
		t.Errorf("continued at %d, want 2", idx)
	}
	c.Start()
	if idx, _ := c.Pulse(); idx != 0 {
		t.Errorf("restarted at %d, want 0", idx)
	}
}

func TestClockShrinkRestartsPass(t *testing.T) {
	c := NewClock(8)
	c.Start()
	for i := 0; i < 6; i++ {
		c.Pulse()
	}
	if !c.SetLength(4) {
		t.Fatal("shrinking past the index should report a restart")
	}
	if idx, _ := c.Pulse(); idx != 0 {
		t.Errorf("next pulse = %d, want 0", idx)
	}
	if c.SetLength(8) {
		t.Error("growing the loop should not restart")
	}
}
