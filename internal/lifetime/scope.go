// Package lifetime provides explicit disposal scopes.
//
// A Scope owns cleanup callbacks and child scopes. Disposing a scope disposes
// its children first, then runs its own callbacks in reverse registration
// order. Components that hand out registrations (listeners, subscriptions)
// take a Scope from the caller and remove the registration when it is
// disposed, so nothing relies on garbage collection to unregister.
package lifetime

import (
	"sync"
)

// Scope is a disposable lifetime. The zero value is not usable; create
// scopes with NewScope or Child.
type Scope struct {
	name string

	mu        sync.Mutex
	disposed  bool
	callbacks []func()
	children  []*Scope
	parent    *Scope
	done      chan struct{}
}

// NewScope creates a root scope.
func NewScope(name string) *Scope {
	return &Scope{
		name: name,
		done: make(chan struct{}),
	}
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Child creates a scope that is disposed together with s. If s is already
// disposed the child is returned disposed.
func (s *Scope) Child(name string) *Scope {
	child := NewScope(name)
	child.parent = s

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		child.Dispose()
		return child
	}
	s.children = append(s.children, child)
	s.mu.Unlock()

	return child
}

// OnDispose registers fn to run when the scope is disposed. If the scope is
// already disposed, fn runs immediately on the calling goroutine.
func (s *Scope) OnDispose(fn func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}

// Dispose ends the scope. It is safe to call more than once and from
// multiple goroutines; only the first call has any effect.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	children := s.children
	callbacks := s.callbacks
	s.children = nil
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for i := len(callbacks) - 1; i >= 0; i-- {
		callbacks[i]()
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Done returns a channel that is closed when the scope is disposed.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
