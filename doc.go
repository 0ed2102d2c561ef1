// Package sigflow is a reactive notification core with a typed, retrying,
// status-dispatching HTTP client on top of it.
//
// The building blocks, leaves first:
//
//   - signal.Signal: add/remove subscribers, notify synchronously.
//   - signal.Value[T]: a Signal carrying a value, notifying on assignment.
//   - async.Resource[T]: value/loading/error signals sharing one async
//     state machine, enumerable as a unit for generic subscription wiring.
//   - retry.Policy: bounded re-attempts with fixed or exponential backoff.
//   - httpres.Resource: HTTP verbs executed under the retry policy, with
//     responses dispatched to status-code-keyed handlers, including typed
//     handlers guarded by a structural JSON shape check.
//
// This package re-exports the public surface so most programs only import
// sigflow and, for typed verbs and handler registration, httpres.
package sigflow
