package sequencer

// Button debounces a raw digital level. A change must be read on
// `stable` consecutive updates before the logical state follows it.
type Button struct {
	read    func() bool
	stable  int
	state   bool
	count   int
	changed bool
}

// NewButton wraps a raw level reader; stable < 1 means 1 (edge detect only)
func NewButton(read func() bool, stable int) *Button {
	if stable < 1 {
		stable = 1
	}
	return &Button{read: read, stable: stable}
}

// Update samples the raw level and returns the debounced state
func (b *Button) Update() bool {
	raw := b.read()
	b.changed = false
	if raw == b.state {
		b.count = 0
		return b.state
	}
	b.count++
	if b.count >= b.stable {
		b.state = raw
		b.count = 0
		b.changed = true
	}
	return b.state
}

// Changed reports whether the last Update flipped the state
func (b *Button) Changed() bool {
	return b.changed
}

func (b *Button) State() bool {
	return b.state
}

// Pressed reports a rising edge on the last Update
func (b *Button) Pressed() bool {
	return b.changed && b.state
}
