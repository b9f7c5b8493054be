package hooks

import "github.com/gouse-dev/gouse/pkg/reactive"

// Toggle is a boolean signal with a flip operation.
type Toggle struct {
	Value *reactive.Signal[bool]
}

// UseToggle creates a toggle starting at initial.
func UseToggle(initial bool) *Toggle {
	return &Toggle{Value: reactive.NewSignal(initial)}
}

// Toggle flips the value.
func (t *Toggle) Toggle() {
	t.Value.Update(func(v bool) bool { return !v })
}

// Set forces the value.
func (t *Toggle) Set(v bool) {
	t.Value.Set(v)
}

// Boolean extends Toggle with explicit setters, for handlers that
// should be unambiguous about direction.
type Boolean struct {
	Toggle
}

// UseBoolean creates a boolean starting at initial.
func UseBoolean(initial bool) *Boolean {
	return &Boolean{Toggle{Value: reactive.NewSignal(initial)}}
}

// SetTrue sets the value to true.
func (b *Boolean) SetTrue() { b.Value.Set(true) }

// SetFalse sets the value to false.
func (b *Boolean) SetFalse() { b.Value.Set(false) }
