// Package editor provides a minimal, project-less editing session: a set of
// open files with one of them selected. It is the host that feeds the
// location tracker, publishing selection and frame activation events on an
// event bus.
package editor

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Iron-Ham/lightgit/internal/errors"
	"github.com/Iron-Ham/lightgit/internal/event"
)

// Session tracks open files and the selected one. It is safe for
// concurrent use. Events are published after the session's lock is
// released, on the caller's goroutine.
type Session struct {
	bus *event.Bus

	mu sync.Mutex
	// history holds open files ordered by last selection, most recent last.
	history []string
}

// NewSession creates an empty session publishing on bus. A nil bus
// disables events.
func NewSession(bus *event.Bus) *Session {
	return &Session{bus: bus}
}

// Open opens path and selects it.
func (s *Session) Open(path string) error {
	abs, err := normalize(path)
	if err != nil {
		return err
	}
	s.selectPath(abs)
	return nil
}

// Select selects an already open file.
func (s *Session) Select(path string) error {
	abs, err := normalize(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	open := slices.Contains(s.history, abs)
	s.mu.Unlock()
	if !open {
		return fmt.Errorf("%w: %s is not open", errors.ErrInvalidInput, abs)
	}

	s.selectPath(abs)
	return nil
}

// Close closes path. Closing the selected file selects the previously
// selected one, or nothing if no file remains open.
func (s *Session) Close(path string) error {
	abs, err := normalize(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	idx := slices.Index(s.history, abs)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is not open", errors.ErrInvalidInput, abs)
	}
	wasSelected := idx == len(s.history)-1
	s.history = slices.Delete(s.history, idx, idx+1)
	next := ""
	if len(s.history) > 0 {
		next = s.history[len(s.history)-1]
	}
	s.mu.Unlock()

	if wasSelected {
		s.publish(event.NewSelectionChangedEvent(next))
	}
	return nil
}

// CloseAll closes every file, leaving nothing selected.
func (s *Session) CloseAll() {
	s.mu.Lock()
	hadSelection := len(s.history) > 0
	s.history = nil
	s.mu.Unlock()

	if hadSelection {
		s.publish(event.NewSelectionChangedEvent(""))
	}
}

// SelectedFile returns the selected file, if any.
func (s *Session) SelectedFile() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return "", false
	}
	return s.history[len(s.history)-1], true
}

// OpenFiles returns the open files, most recently selected last.
func (s *Session) OpenFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// ActivateFrame signals that the host window regained focus.
func (s *Session) ActivateFrame() {
	s.publish(event.NewFrameActivatedEvent())
}

func (s *Session) selectPath(abs string) {
	s.mu.Lock()
	if n := len(s.history); n > 0 && s.history[n-1] == abs {
		s.mu.Unlock()
		return
	}
	if idx := slices.Index(s.history, abs); idx >= 0 {
		s.history = slices.Delete(s.history, idx, idx+1)
	}
	s.history = append(s.history, abs)
	s.mu.Unlock()

	s.publish(event.NewSelectionChangedEvent(abs))
}

func (s *Session) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", errors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	return abs, nil
}
