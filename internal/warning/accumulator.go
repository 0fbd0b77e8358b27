package warning

import "sync"

// Accumulator collects warnings emitted during compiles until they are taken.
// It is owned by the compiler session and passed to the backend explicitly.
type Accumulator struct {
	mu       sync.Mutex
	warnings []Warning
}

// Emit records w.
func (a *Accumulator) Emit(w Warning) {
	a.mu.Lock()
	a.warnings = append(a.warnings, w)
	a.mu.Unlock()
}

// Len reports how many warnings are waiting.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.warnings)
}

// Take returns every warning in emission order and empties the accumulator.
func (a *Accumulator) Take() []Warning {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.warnings
	a.warnings = nil
	return out
}
