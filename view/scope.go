// Package view composes the matchday components into the views a consumer
// mounts: the match panel, the watch page and the paged listings. Each view
// owns its state exclusively and drops fetch results that arrive after it
// was closed or after a newer load was started.
package view

import (
	"errors"
	"sync"
)

// ErrClosed is returned by user actions on a view that has been closed.
var ErrClosed = errors.New("view is closed")

// Ticket identifies one load issued by a Scope.
type Ticket uint64

// Scope is the mounted-lifetime guard of a view.
type Scope struct {
	mu     sync.Mutex
	latest Ticket
	closed bool
}

// Begin starts a load and returns its ticket. Any earlier ticket becomes stale.
func (s *Scope) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Apply runs fn if the scope is still mounted and t is the latest ticket.
// It reports whether fn ran. Close waits for a running fn to return.
func (s *Scope) Apply(t Ticket, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || t != s.latest {
		return false
	}
	fn()
	return true
}

// Do runs fn if the scope is still mounted, independent of any load.
func (s *Scope) Do(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

// Close unmounts the scope. Later Apply calls are no-ops.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
