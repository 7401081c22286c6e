// Package statusbar renders the tracked git location as a status bar item.
package statusbar

import (
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/lightgit/internal/lifetime"
	"github.com/Iron-Ham/lightgit/internal/tracker"
)

// Default widget settings.
const (
	DefaultPrefix      = "Git"
	DefaultUnknownText = ""
)

const ellipsis = "..."

var (
	prefixColor  = lipgloss.Color("#9CA3AF") // Gray
	branchColor  = lipgloss.Color("#10B981") // Green
	unknownColor = lipgloss.Color("#6B7280") // Dim gray

	prefixStyle  = lipgloss.NewStyle().Foreground(prefixColor)
	branchStyle  = lipgloss.NewStyle().Foreground(branchColor).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(unknownColor).Italic(true)
)

// Source is what the widget reads locations from.
type Source interface {
	CurrentLocation() tracker.Location
	AddUpdateListener(listener tracker.Listener, scope *lifetime.Scope)
}

// Widget shows "<prefix>: <location>". When the location is unknown it shows
// the unknown text, or nothing if that is empty.
type Widget struct {
	source      Source
	prefix      string
	unknownText string
	maxWidth    int

	mu       sync.Mutex
	location tracker.Location
	onChange []func(string)
}

// Option configures a Widget.
type Option func(*Widget)

// WithPrefix sets the label shown before the location.
func WithPrefix(prefix string) Option {
	return func(w *Widget) {
		w.prefix = prefix
	}
}

// WithUnknownText sets the text shown when the location is unknown.
func WithUnknownText(text string) Option {
	return func(w *Widget) {
		w.unknownText = text
	}
}

// WithMaxWidth truncates the widget to width terminal columns. Zero or a
// negative width disables truncation.
func WithMaxWidth(width int) Option {
	return func(w *Widget) {
		w.maxWidth = width
	}
}

// New creates a widget that follows source until scope is disposed.
func New(source Source, scope *lifetime.Scope, opts ...Option) *Widget {
	w := &Widget{
		source:      source,
		prefix:      DefaultPrefix,
		unknownText: DefaultUnknownText,
		location:    source.CurrentLocation(),
	}
	for _, opt := range opts {
		opt(w)
	}
	source.AddUpdateListener(w.update, scope)
	return w
}

// OnChange registers fn to receive the widget's plain text after every
// location update.
func (w *Widget) OnChange(fn func(text string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Location returns the location the widget currently shows.
func (w *Widget) Location() tracker.Location {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.location
}

// Text returns the widget content without styling.
func (w *Widget) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text()
}

// Render returns the widget content styled for a terminal.
func (w *Widget) Render() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, ok := w.location.Name()
	switch {
	case ok:
		return w.truncate(w.renderPrefix() + branchStyle.Render(name))
	case w.unknownText != "":
		return w.truncate(w.renderPrefix() + unknownStyle.Render(w.unknownText))
	default:
		return ""
	}
}

// truncate shortens s to the configured width, keeping escape sequences
// intact and ending in an ellipsis.
func (w *Widget) truncate(s string) string {
	if w.maxWidth <= 0 || lipgloss.Width(s) <= w.maxWidth {
		return s
	}
	if w.maxWidth <= len(ellipsis) {
		return ellipsis[:w.maxWidth]
	}
	return ansi.Truncate(s, w.maxWidth, ellipsis)
}

func (w *Widget) renderPrefix() string {
	if w.prefix == "" {
		return ""
	}
	return prefixStyle.Render(w.prefix+":") + " "
}

func (w *Widget) text() string {
	name, ok := w.location.Name()
	if !ok {
		name = w.unknownText
	}
	if name == "" {
		return ""
	}
	if w.prefix == "" {
		return w.truncate(name)
	}
	return w.truncate(w.prefix + ": " + name)
}

func (w *Widget) update() {
	loc := w.source.CurrentLocation()

	w.mu.Lock()
	w.location = loc
	text := w.text()
	hooks := slices.Clone(w.onChange)
	w.mu.Unlock()

	for _, fn := range hooks {
		fn(text)
	}
}
