package midi

import (
	"reflect"
	"testing"
)

func TestSendOrdersWrites(t *testing.T) {
	a, b := &RecordingSink{}, &RecordingSink{}
	Send(MultiSink{a, b}, 3, []Event{On(60, 100), Off(60, 0)})

	want := []Write{{0x93, 60, 100}, {0x83, 60, 0}}
	if !reflect.DeepEqual(want, a.Writes()) || !reflect.DeepEqual(want, b.Writes()) {
		t.Errorf("writes:\nwant: %+v\ngot:  %+v / %+v", want, a.Writes(), b.Writes())
	}

	a.Reset()
	if len(a.Writes()) != 0 {
		t.Error("Reset kept writes")
	}

	// nil sink is a no-op
	Send(nil, 0, []Event{On(60, 1)})
}

func TestPickPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "Arturia KeyStep 32", "Launchpad X LPX MIDI"}
	tests := []struct {
		pattern string
		want    int
	}{
		{"", 1},
		{"keystep", 1},
		{"LAUNCHPAD", 2},
		{"through", 0},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := PickPort(names, tt.pattern); got != tt.want {
			t.Errorf("PickPort(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
	if PickPort([]string{"Midi Through Port-0"}, "") != -1 {
		t.Error("excluded port picked")
	}
}
