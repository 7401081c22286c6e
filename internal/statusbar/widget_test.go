package statusbar

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Iron-Ham/lightgit/internal/lifetime"
	"github.com/Iron-Ham/lightgit/internal/tracker"
)

// fakeSource is a hand-driven Source.
type fakeSource struct {
	mu        sync.Mutex
	location  tracker.Location
	listeners []tracker.Listener
}

func (s *fakeSource) CurrentLocation() tracker.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

func (s *fakeSource) AddUpdateListener(listener tracker.Listener, scope *lifetime.Scope) {
	s.mu.Lock()
	idx := len(s.listeners)
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()

	scope.OnDispose(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[idx] = nil
	})
}

func (s *fakeSource) publish(loc tracker.Location) {
	s.mu.Lock()
	s.location = loc
	listeners := append([]tracker.Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l()
		}
	}
}

func TestWidget_Text(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		location tracker.Location
		want     string
	}{
		{
			name:     "known with default prefix",
			location: tracker.Known("main"),
			want:     "Git: main",
		},
		{
			name:     "unknown with default text is blank",
			location: tracker.Unknown(),
			want:     "",
		},
		{
			name:     "unknown with configured text",
			opts:     []Option{WithUnknownText("no repository")},
			location: tracker.Unknown(),
			want:     "Git: no repository",
		},
		{
			name:     "custom prefix",
			opts:     []Option{WithPrefix("Branch")},
			location: tracker.Known("feature/x"),
			want:     "Branch: feature/x",
		},
		{
			name:     "no prefix",
			opts:     []Option{WithPrefix("")},
			location: tracker.Known("1a2b3c4"),
			want:     "1a2b3c4",
		},
		{
			name:     "long branch truncated",
			opts:     []Option{WithMaxWidth(12)},
			location: tracker.Known("feature/very-long-name"),
			want:     "Git: feat...",
		},
		{
			name:     "fits within max width",
			opts:     []Option{WithMaxWidth(9)},
			location: tracker.Known("main"),
			want:     "Git: main",
		},
		{
			name:     "width narrower than ellipsis",
			opts:     []Option{WithMaxWidth(2)},
			location: tracker.Known("main"),
			want:     "..",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := lifetime.NewScope("test")
			defer scope.Dispose()

			src := &fakeSource{}
			w := New(src, scope, tt.opts...)
			src.publish(tt.location)

			if got := w.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWidget_RenderContainsLocation(t *testing.T) {
	scope := lifetime.NewScope("test")
	defer scope.Dispose()

	src := &fakeSource{location: tracker.Known("main")}
	w := New(src, scope)

	out := w.Render()
	if !strings.Contains(out, "main") || !strings.Contains(out, "Git:") {
		t.Errorf("Render() = %q, want prefix and branch", out)
	}

	src.publish(tracker.Unknown())
	if out := w.Render(); out != "" {
		t.Errorf("Render() = %q for unknown location, want empty", out)
	}
}

func TestWidget_InitialLocation(t *testing.T) {
	scope := lifetime.NewScope("test")
	defer scope.Dispose()

	src := &fakeSource{location: tracker.Known("develop")}
	w := New(src, scope)

	if got := w.Location(); got != tracker.Known("develop") {
		t.Errorf("Location() = %v, want develop", got)
	}
}

func TestWidget_OnChange(t *testing.T) {
	scope := lifetime.NewScope("test")
	defer scope.Dispose()

	src := &fakeSource{}
	w := New(src, scope)

	var got []string
	w.OnChange(func(text string) {
		got = append(got, text)
	})

	src.publish(tracker.Known("main"))
	src.publish(tracker.Unknown())
	src.publish(tracker.Known("main"))

	want := []string{"Git: main", "", "Git: main"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("OnChange texts = %q, want %q", got, want)
	}
}

func TestWidget_OnChangeHooksAddedDuringUpdate(t *testing.T) {
	scope := lifetime.NewScope("test")
	defer scope.Dispose()

	src := &fakeSource{}
	w := New(src, scope)

	var first, late []string
	w.OnChange(func(text string) {
		first = append(first, text)
		if len(first) == 1 {
			w.OnChange(func(text string) {
				late = append(late, text)
			})
		}
	})

	src.publish(tracker.Known("main"))
	src.publish(tracker.Known("develop"))

	if strings.Join(first, "|") != "Git: main|Git: develop" {
		t.Errorf("first hook texts = %q", first)
	}
	if strings.Join(late, "|") != "Git: develop" {
		t.Errorf("hook added during an update saw %q, want only the next update", late)
	}
}

func TestWidget_StopsFollowingWhenScopeDisposed(t *testing.T) {
	scope := lifetime.NewScope("test")
	src := &fakeSource{}
	w := New(src, scope)

	src.publish(tracker.Known("main"))
	scope.Dispose()
	src.publish(tracker.Known("other"))

	if got := w.Location(); got != tracker.Known("main") {
		t.Errorf("Location() = %v after dispose, want main", got)
	}
}

type locatorFunc func(dir string) (string, error)

func (f locatorFunc) Locate(ctx context.Context, dir, executable string) (string, error) {
	return f(dir)
}

func TestWidget_WithTracker(t *testing.T) {
	scope := lifetime.NewScope("session")
	defer scope.Dispose()

	locator := locatorFunc(func(dir string) (string, error) { return "trunk", nil })
	tr := tracker.New(nil, locator, func() string { return "git" }, scope)
	w := New(tr, scope, WithUnknownText("?"))

	if got := w.Text(); got != "Git: ?" {
		t.Errorf("Text() = %q before any lookup, want %q", got, "Git: ?")
	}

	tr.OnSelectionChanged("/repo/file.go")
	tr.Wait()

	if got := w.Text(); got != "Git: trunk" {
		t.Errorf("Text() = %q, want %q", got, "Git: trunk")
	}
}
