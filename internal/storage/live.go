package storage

import (
	"context"
	"log"
	"sync"

	"github.com/tbarker-dev/deckbox/internal/events"
)

// Live is a subscribable query handle. It delivers the current result
// shortly after creation and again after every mutation that touches the
// tables the query depends on. Stale intermediate results are conflated:
// a slow consumer only ever sees the newest value.
//
// Cancel must be called when the owning scope ends or the subscription
// keeps re-running the query on every change.
type Live[T any] struct {
	updates chan T

	mu        sync.Mutex
	cancelled bool
	sub       *events.Subscription
	onError   func(error)
}

// Updates returns the channel on which results are delivered. The channel
// is never closed; stop reading after Cancel.
func (l *Live[T]) Updates() <-chan T {
	return l.updates
}

// OnError registers a callback for re-query failures. Without one, failures
// are only logged. In either case the last delivered value stands; a failed
// re-query never pushes a wrong result.
func (l *Live[T]) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Cancel stops deliveries and releases the subscription.
// Safe to call more than once.
func (l *Live[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelled {
		return
	}
	l.cancelled = true
	l.sub.Cancel()
}

// push delivers a value, dropping the previous undelivered one if the
// consumer has not caught up.
func (l *Live[T]) push(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelled {
		return
	}
	for {
		select {
		case l.updates <- value:
			return
		default:
			select {
			case <-l.updates:
			default:
			}
		}
	}
}

func (l *Live[T]) fail(err error) {
	l.mu.Lock()
	fn := l.onError
	cancelled := l.cancelled
	l.mu.Unlock()
	if cancelled {
		return
	}
	if fn != nil {
		fn(err)
	}
}

// liveQuery wires a query to the change dispatcher: run once now, then
// re-run whenever a matching change on one of the tables is dispatched.
// Queries execute on the service's worker pool.
func liveQuery[T any](
	s *Service,
	query func(context.Context) (T, error),
	match func(events.Change) bool,
	tables ...events.Table,
) *Live[T] {
	l := &Live[T]{updates: make(chan T, 1)}

	rerun := func(reason string) {
		s.exec.submit(func() {
			value, err := query(context.Background())
			if err != nil {
				log.Printf("[Storage] live query failed (%s): %v", reason, err)
				l.fail(err)
				return
			}
			l.push(value)
		})
	}

	l.sub = s.dispatcher.Subscribe(func(change events.Change) {
		if match != nil && !match(change) {
			return
		}
		rerun(string(change.Op) + " " + string(change.Table))
	}, tables...)

	rerun("initial")
	return l
}
