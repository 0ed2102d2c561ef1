package signal

// Bool is a Value[bool] with toggle sugar.
type Bool struct{ *Value[bool] }

// NewBool creates a Bool holding initial.
func NewBool(initial bool) *Bool { return &Bool{NewValue(initial)} }

// Toggle flips the stored value.
func (b *Bool) Toggle() { b.Update(func(v bool) bool { return !v }) }

// Int is a Value[int] with counter sugar.
type Int struct{ *Value[int] }

// NewInt creates an Int holding initial.
func NewInt(initial int) *Int { return &Int{NewValue(initial)} }

// Inc increments the stored value by one.
func (i *Int) Inc() { i.Add(1) }

// Dec decrements the stored value by one.
func (i *Int) Dec() { i.Add(-1) }

// Add adds n to the stored value.
func (i *Int) Add(n int) { i.Update(func(v int) int { return v + n }) }
