// Package async provides Resource[T], a bundle of value, loading and error
// signals that share one asynchronous state machine. A Resource runs a
// user-supplied operation, transitions the triad around it, and notifies as
// a whole once the operation has settled.
package async
