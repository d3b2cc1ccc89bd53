package attachment

import (
	"fmt"
	"sync"
)

// Warnings is an append-only collector of data-quality diagnostics.
// A fresh collector must be used for every comparison run.
type Warnings struct {
	mu    sync.Mutex
	items []string
}

// NewWarnings creates an empty collector.
func NewWarnings() *Warnings {
	return &Warnings{}
}

// Add appends a formatted warning.
func (w *Warnings) Add(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, fmt.Sprintf(format, args...))
}

// List returns a copy of the collected warnings in insertion order.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the number of collected warnings.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
