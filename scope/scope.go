package scope

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when registering against a scope that has already
// been torn down.
var ErrClosed = errors.New("scope: closed")

// ErrorSink receives release-action failures during teardown. The name is
// the one given at registration time.
type ErrorSink func(name string, err error)

type action struct {
	name    string
	release func() error
}

// Scope is an ordered registry of release actions. The zero value is not
// usable; create one with New. A Scope is safe for concurrent use.
type Scope struct {
	mu      sync.Mutex
	closed  bool
	actions []action
	sink    ErrorSink
	workers sync.WaitGroup
}

// Option configures a Scope.
type Option func(*Scope)

// WithErrorSink routes release failures to sink instead of collecting them
// into Close's return value.
func WithErrorSink(sink ErrorSink) Option {
	return func(s *Scope) { s.sink = sink }
}

// New creates an empty open scope.
func New(opts ...Option) *Scope {
	s := &Scope{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defer registers a release action to run at teardown. Actions run in
// reverse registration order. Returns ErrClosed if the scope has already
// been torn down, in which case the action is NOT run.
func (s *Scope) Defer(name string, release func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.actions = append(s.actions, action{name: name, release: release})
	return nil
}

// Acquire runs acquire and registers release for the resulting resource in
// one step. If the scope closes concurrently between the two, the fresh
// resource is released immediately and ErrClosed is returned, so the
// resource cannot leak.
func Acquire[T any](s *Scope, name string, acquire func() (T, error), release func(T) error) (T, error) {
	var zero T

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	s.mu.Unlock()

	v, err := acquire()
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if rerr := release(v); rerr != nil {
			return zero, fmt.Errorf("%w (release %s: %v)", ErrClosed, name, rerr)
		}
		return zero, ErrClosed
	}
	s.actions = append(s.actions, action{name: name, release: func() error { return release(v) }})
	s.mu.Unlock()

	return v, nil
}

// Go runs fn as a background worker tracked by the scope. Close waits for
// all workers after the release actions have run; the actions are expected
// to unblock any worker still waiting on a resource they tear down.
// Returns ErrClosed without starting fn if the scope is already closed.
func (s *Scope) Go(fn func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.workers.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.workers.Done()
		fn()
	}()
	return nil
}

// Close tears the scope down: release actions run in reverse registration
// order, each exactly once, then Close waits for background workers. A
// failing action never stops the remaining ones. With an error sink
// installed, failures go there and Close returns nil; otherwise they are
// joined into the return value. Closing an already-closed scope is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	actions := s.actions
	s.actions = nil
	s.mu.Unlock()

	var errs []error
	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		if err := a.release(); err != nil {
			if s.sink != nil {
				s.sink(a.name, err)
			} else {
				errs = append(errs, fmt.Errorf("%s: %w", a.name, err))
			}
		}
	}

	s.workers.Wait()
	return errors.Join(errs...)
}
