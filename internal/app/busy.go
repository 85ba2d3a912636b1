package app

import "sync"

// Busy is a reentrant in-progress counter. It is visible while at least one
// scope is held.
type Busy struct {
	mu       sync.Mutex
	count    int
	label    string
	onChange func(visible bool, label string)
}

// NewBusy returns a Busy that calls onChange, if non-nil, on every acquire and
// whenever the last scope is released.
func NewBusy(onChange func(visible bool, label string)) *Busy {
	return &Busy{onChange: onChange}
}

// Acquire opens a scope and returns its release func. Calling release more
// than once has no further effect.
func (b *Busy) Acquire(label string) func() {
	b.mu.Lock()
	b.count++
	b.label = label
	b.mu.Unlock()
	b.notify(true, label)

	var once sync.Once
	return func() {
		once.Do(b.release)
	}
}

func (b *Busy) release() {
	b.mu.Lock()
	if b.count > 0 {
		b.count--
	}
	idle := b.count == 0
	if idle {
		b.label = ""
	}
	b.mu.Unlock()

	if idle {
		b.notify(false, "")
	}
}

func (b *Busy) notify(visible bool, label string) {
	if b.onChange != nil {
		b.onChange(visible, label)
	}
}

func (b *Busy) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count > 0
}

// Label returns the label of the most recently acquired open scope.
func (b *Busy) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}
