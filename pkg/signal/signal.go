package signal

import (
	"sync"
	"sync/atomic"
)

// Callback is invoked each time the signal it is subscribed to notifies.
type Callback func()

// Notifier is the subscription surface shared by Signal and Value.
// Composites expose their internal signals through it so callers can manage
// subscriptions generically (see async.Resource.InternalSignals).
type Notifier interface {
	Subscribe(fn Callback) *Subscription
	Unsubscribe(id uint64)
	Notify()
	Dispose()
}

// idCounter is the source of unique subscription ids.
// Atomic increments keep id generation lock-free.
var idCounter atomic.Uint64

func nextID() uint64 { return idCounter.Add(1) }

// Subscription is the handle returned by Subscribe. Dispose removes the
// callback from its signal; it is safe to call more than once and safe to
// call from inside the callback itself.
type Subscription struct {
	id  uint64
	sig *Signal
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() uint64 { return s.id }

// Dispose unsubscribes the callback.
func (s *Subscription) Dispose() { s.sig.Unsubscribe(s.id) }

type entry struct {
	id uint64
	fn Callback
}

// Signal is the base notification primitive: an insertion-ordered subscriber
// list and a Notify that invokes every subscriber synchronously.
//
// The subscriber list is lock-protected so that subscriptions may be managed
// from callbacks during notification. That is iteration safety only; Signal
// makes no cross-goroutine ordering promises.
type Signal struct {
	mu       sync.Mutex
	subs     []entry
	disposed bool
}

// New creates an empty Signal.
func New() *Signal { return &Signal{} }

// Subscribe registers fn and returns its subscription handle.
// Subscribers are notified in subscription order.
func (s *Signal) Subscribe(fn Callback) *Subscription {
	sub := &Subscription{id: nextID(), sig: s}
	if fn == nil {
		return sub
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return sub
	}
	s.subs = append(s.subs, entry{id: sub.id, fn: fn})
	return sub
}

// Unsubscribe removes the subscriber with the given id, keeping the
// remaining subscribers in their original order.
func (s *Signal) Unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.subs {
		if e.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Notify invokes every currently registered callback, in subscription order.
// It iterates a snapshot taken up front: a callback added during
// notification is not invoked until the next Notify, and one removed during
// notification is skipped if it has not yet run.
func (s *Signal) Notify() {
	s.mu.Lock()
	snapshot := make([]entry, len(s.subs))
	copy(snapshot, s.subs)
	s.mu.Unlock()

	for _, e := range snapshot {
		if s.subscribed(e.id) {
			e.fn()
		}
	}
}

func (s *Signal) subscribed(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.subs {
		if e.id == id {
			return true
		}
	}
	return false
}

// Dispose clears all subscribers. Notify on a disposed signal is a no-op,
// and later Subscribe calls register nothing.
func (s *Signal) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = nil
	s.disposed = true
}

// Count returns the number of current subscribers.
func (s *Signal) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
