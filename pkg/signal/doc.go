// Package signal provides the notification core: a Signal with an
// insertion-ordered subscriber list, and Value[T], a Signal that carries a
// current value and notifies on every assignment.
//
// Signals are synchronous. Notify invokes every registered callback on the
// calling goroutine, in subscription order, iterating a snapshot so that
// callbacks may subscribe or unsubscribe while a notification is in flight.
//
//	s := signal.New()
//	sub := s.Subscribe(func() { fmt.Println("changed") })
//	s.Notify()
//	sub.Dispose()
package signal
