package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation that is
// completed exactly once. Safe for concurrent use by multiple waiters.
type Future[T any] struct {
	value T
	err   error
	once  sync.Once
	done  chan struct{}
}

// NewFuture creates an incomplete future. Complete it with Complete.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future with the given value and error. Only the first
// call has any effect; subsequent calls are ignored.
func (f *Future[T]) Complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Await blocks until the future is completed and returns its result.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitWithTimeout waits for completion up to the given duration.
// Returns ErrTimeout if the deadline passes first; the future itself is
// unaffected and can be awaited again.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// AwaitContext waits for completion or context cancellation, whichever
// happens first.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// IsComplete reports whether the future has been completed, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Run executes fn in a new goroutine and returns a future for its result.
// If ctx is already canceled the future completes immediately with ctx.Err().
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()

	go func() {
		select {
		case <-ctx.Done():
			var zero T
			f.Complete(zero, ctx.Err())
			return
		default:
		}

		v, err := fn(ctx)
		f.Complete(v, err)
	}()

	return f
}
