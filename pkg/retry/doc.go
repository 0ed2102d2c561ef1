// Package retry decides whether and when to re-attempt an HTTP operation.
// A Policy retries transport-level errors unconditionally and completed
// responses whose status code is in a configurable transient set, waiting a
// fixed or exponentially growing delay between attempts, bounded by a
// maximum attempt count. The final outcome is always returned unchanged.
package retry
