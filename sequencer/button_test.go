package sequencer

import "testing"

func TestButtonEdges(t *testing.T) {
	level := false
	b := NewButton(func() bool { return level }, 0)

	steps := []struct {
		level, state, changed bool
	}{
		{false, false, false},
		{true, true, true},
		{true, true, false},
		{false, false, true},
		{false, false, false},
	}
	for i, s := range steps {
		level = s.level
		if got := b.Update(); got != s.state || b.Changed() != s.changed {
			t.Errorf("step %d: state=%v changed=%v, want %v %v", i, got, b.Changed(), s.state, s.changed)
		}
	}
}

func TestButtonDebounce(t *testing.T) {
	level := false
	b := NewButton(func() bool { return level }, 3)

	level = true
	b.Update()
	level = false
	b.Update() // bounce resets the count
	level = true
	b.Update()
	b.Update()
	if b.State() {
		t.Fatal("state followed a level held for only 2 polls")
	}
	b.Update()
	if !b.State() || !b.Pressed() {
		t.Errorf("state=%v pressed=%v after 3 stable polls", b.State(), b.Pressed())
	}
	b.Update()
	if b.Pressed() {
		t.Error("press reported twice")
	}
}
