package storage

import "context"

// Future is the handle for a one-shot asynchronous storage operation. The
// result becomes available once the background pool has executed the
// operation; abandoning a Future (never calling Get) has no side effects.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete resolves the future. Must be called exactly once.
func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Get blocks until the operation finishes or the context is done, and
// returns the operation's result or error.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the result is available, for callers
// that want to select over several futures.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
