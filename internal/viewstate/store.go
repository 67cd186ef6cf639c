// Package viewstate holds the per-screen record that a renderer draws from and
// the fetch triggers that feed it.
//
// A Store lives exactly as long as its screen is mounted. Every trigger runs
// with the store's context, so Stop cancels whatever is still in flight and
// drops late results. Each trigger key carries a generation counter: when two
// calls for the same key overlap, only the most recently issued one may write.
package viewstate

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	ErrStopped = errors.New("viewstate: screen unmounted")
	ErrStale   = errors.New("viewstate: superseded by a newer request")
)

// Status drives the loading and error branches of a renderer.
type Status struct {
	Loading bool
	Err     error
}

type Store[S any] struct {
	mu      sync.Mutex
	state   S
	err     error
	pending int
	gens    map[string]uint64
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

func New[S any](parent context.Context, initial S) *Store[S] {
	ctx, cancel := context.WithCancel(parent)
	return &Store[S]{state: initial, gens: map[string]uint64{}, ctx: ctx, cancel: cancel}
}

// View returns a copy of the record and its status.
func (s *Store[S]) View() (S, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, Status{Loading: s.pending > 0, Err: s.err}
}

// Update applies a synchronous change such as form input or a selection.
func (s *Store[S]) Update(fn func(*S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	fn(&s.state)
}

// Fail records an error that did not come from a trigger, e.g. local validation.
func (s *Store[S]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.err = err
}

// Stop cancels in-flight calls. Results that arrive afterwards are discarded.
func (s *Store[S]) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Store[S]) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Trigger is one network call and the way its outcome lands in the record.
type Trigger[S, R any] struct {
	Key string
	// Quiet calls do not show the loading indicator.
	Quiet bool
	Call  func(ctx context.Context) (R, error)
	Apply func(st *S, r R)
	// Absorb may turn a failure into state (a redirect, an empty list) instead
	// of an error banner. It reports whether it handled the error.
	Absorb func(st *S, err error) bool
}

// Fire runs t and reconciles the result. It returns the call's error, or
// ErrStale / ErrStopped when the result was dropped.
func Fire[S, R any](s *Store[S], t Trigger[S, R]) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	s.gens[t.Key]++
	gen := s.gens[t.Key]
	if !t.Quiet {
		s.pending++
	}
	ctx := s.ctx
	s.mu.Unlock()

	r, err := t.Call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.Quiet {
		s.pending--
	}
	if s.stopped {
		return ErrStopped
	}
	if s.gens[t.Key] != gen {
		return ErrStale
	}
	if err != nil {
		if t.Absorb == nil || !t.Absorb(&s.state, err) {
			s.err = err
		}
		return err
	}
	if t.Apply != nil {
		t.Apply(&s.state, r)
	}
	return nil
}

// Together runs fns concurrently, waits for all of them and returns the first
// error. One failing fetch does not cancel the others.
func Together(fns ...func() error) error {
	var g errgroup.Group
	for _, fn := range fns {
		g.Go(fn)
	}
	return g.Wait()
}
