package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrSealed is returned by Send once the mailbox has been sealed. It marks
// a clean shutdown of the other side, not a fault.
var ErrSealed = errors.New("mailbox: sealed")

// Mailbox is a bounded handoff channel shared by exactly one producer and
// one consumer. Create one with New.
type Mailbox[T any] struct {
	items  chan T
	sealed chan struct{}
	once   sync.Once
}

// New creates a mailbox holding at most capacity in-flight values.
// Capacities below one are raised to one: a zero-capacity handoff would
// serialize producer and consumer instead of letting them overlap.
func New[T any](capacity int) *Mailbox[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Mailbox[T]{
		items:  make(chan T, capacity),
		sealed: make(chan struct{}),
	}
}

// Send delivers v to the consumer, blocking until buffer space is free.
// Returns ErrSealed once the mailbox is sealed, or ctx.Err() if the context
// is cancelled while blocked.
func (m *Mailbox[T]) Send(ctx context.Context, v T) error {
	select {
	case <-m.sealed:
		return ErrSealed
	default:
	}
	select {
	case m.items <- v:
		return nil
	case <-m.sealed:
		return ErrSealed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the next value, blocking until one is available. After
// the mailbox is sealed, buffered values are drained first; then Receive
// reports end-of-stream as (zero, false, nil). A cancelled context aborts a
// blocked Receive with ctx.Err().
func (m *Mailbox[T]) Receive(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case v := <-m.items:
		return v, true, nil
	case <-m.sealed:
		select {
		case v := <-m.items:
			return v, true, nil
		default:
			return zero, false, nil
		}
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Seal marks the mailbox permanently closed from either end, waking any
// blocked Send or Receive. Sealing more than once has no further effect.
func (m *Mailbox[T]) Seal() {
	m.once.Do(func() { close(m.sealed) })
}

// Sealed reports whether Seal has been called.
func (m *Mailbox[T]) Sealed() bool {
	select {
	case <-m.sealed:
		return true
	default:
		return false
	}
}
