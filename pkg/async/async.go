package async

import (
	"context"

	"github.com/sigflow-dev/sigflow/pkg/signal"
)

// Resource bundles a value, a loading flag and an error into one unit
// sharing a single async state machine: Idle → Loading → Idle. The resource
// is itself a Signal and notifies after every completed operation, once its
// component signals have already fired.
//
// A Resource performs no internal serialization. Concurrent LoadAsync calls
// on one instance interleave writes to the shared signals and the last
// writer wins; callers needing isolation use separate instances or
// serialize externally.
type Resource[T any] struct {
	*signal.Signal

	value   *signal.Value[T]
	loading *signal.Bool
	err     *signal.Value[error]
}

// New creates an idle Resource with a zero value, loading false and no error.
func New[T any]() *Resource[T] {
	var zero T
	return &Resource[T]{
		Signal:  signal.New(),
		value:   signal.NewValue(zero),
		loading: signal.NewBool(false),
		err:     signal.NewValue[error](nil),
	}
}

// Value is the signal holding the last produced value.
func (r *Resource[T]) Value() *signal.Value[T] { return r.value }

// Loading is the signal holding the in-flight flag.
func (r *Resource[T]) Loading() *signal.Bool { return r.loading }

// Err is the signal holding the last operation failure, nil while an
// operation is in flight and after a success.
func (r *Resource[T]) Err() *signal.Value[error] { return r.err }

// LoadAsync runs producer through the loading state machine. On success the
// produced value replaces the current one; on failure the prior value is
// kept and the error is stored and returned. The loading flag is cleared on
// every exit path, after which the resource itself notifies.
func (r *Resource[T]) LoadAsync(ctx context.Context, producer func(context.Context) (T, error)) error {
	r.loading.Set(true)
	r.err.Set(nil)
	defer func() {
		r.loading.Set(false)
		r.Notify()
	}()

	v, err := producer(ctx)
	if err != nil {
		r.err.Set(err)
		return err
	}
	r.value.Set(v)
	return nil
}

// RunAsync is LoadAsync for side-effecting operations: the state machine is
// identical but the stored value is left as-is.
func (r *Resource[T]) RunAsync(ctx context.Context, action func(context.Context) error) error {
	r.loading.Set(true)
	r.err.Set(nil)
	defer func() {
		r.loading.Set(false)
		r.Notify()
	}()

	if err := action(ctx); err != nil {
		r.err.Set(err)
		return err
	}
	return nil
}

// InternalSignals enumerates the resource's component signals plus the
// resource's own signal, so a binding layer can subscribe or unsubscribe the
// whole unit without naming fields. Embedders append their own signals while
// keeping this base set.
func (r *Resource[T]) InternalSignals() []signal.Notifier {
	return []signal.Notifier{r.value, r.loading, r.err, r.Signal}
}

// Dispose clears the subscribers of every internal signal.
func (r *Resource[T]) Dispose() {
	for _, s := range r.InternalSignals() {
		s.Dispose()
	}
}
