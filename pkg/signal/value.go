package signal

import "sync"

// Value is a Signal carrying a current value of type T. Set stores the new
// value and then notifies. Assignment is always treated as change: storing a
// value equal to the current one still notifies, so callers wanting
// change-only semantics compare before calling Set.
type Value[T any] struct {
	*Signal

	mu    sync.RWMutex
	value T
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{Signal: New(), value: initial}
}

// Get returns the current value. Reading never notifies.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the stored value, then notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.value = val
	v.mu.Unlock()
	v.Notify()
}

// Update applies fn to the current value, stores the result and notifies.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.value = fn(v.value)
	v.mu.Unlock()
	v.Notify()
}
