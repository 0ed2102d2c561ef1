package sigflow

import (
	"github.com/sigflow-dev/sigflow/pkg/async"
	"github.com/sigflow-dev/sigflow/pkg/httpres"
	"github.com/sigflow-dev/sigflow/pkg/retry"
	"github.com/sigflow-dev/sigflow/pkg/signal"
)

// =============================================================================
// Re-exports
// =============================================================================
//
// These aliases let callers write sigflow.NewSignal / sigflow.NewHTTP without
// importing the subpackages. Typed verbs and typed handler registration stay
// in httpres (Go functions with type parameters cannot be re-exported as
// methods).

// Signal is the base notification primitive.
type Signal = signal.Signal

// Subscription is the disposable handle returned by Subscribe.
type Subscription = signal.Subscription

// Callback is a subscriber function.
type Callback = signal.Callback

// Notifier is the generic subscription surface used by InternalSignals.
type Notifier = signal.Notifier

// Value is a Signal carrying a current value.
type Value[T any] = signal.Value[T]

// AsyncResource bundles value/loading/error signals around one async state
// machine.
type AsyncResource[T any] = async.Resource[T]

// RetryOptions configures the retry policy of an HTTP resource.
type RetryOptions = retry.Options

// Response is the immutable record of a completed HTTP exchange.
type Response = httpres.Response

// Typed pairs a Response with its decoded payload.
type Typed[T any] = httpres.Typed[T]

// HTTPResource is the retrying, status-dispatching HTTP client.
type HTTPResource = httpres.Resource

// NewSignal creates an empty Signal.
func NewSignal() *Signal { return signal.New() }

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] { return signal.NewValue(initial) }

// NewAsync creates an idle AsyncResource.
func NewAsync[T any]() *AsyncResource[T] { return async.New[T]() }

// NewHTTP creates an HTTPResource rooted at baseURL.
func NewHTTP(baseURL string, opts ...httpres.Option) *HTTPResource {
	return httpres.New(baseURL, opts...)
}
