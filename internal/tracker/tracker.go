// Package tracker follows the file selected in a light editing session and
// publishes the git location of its directory.
//
// Selections are resolved in the background through a single-slot
// coalescing controller: at most one lookup runs at a time, each pass
// resolves only the most recently requested directory, and a failed lookup
// publishes Unknown. Listeners are notified with no payload and read
// CurrentLocation themselves.
package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/lightgit/internal/errors"
	"github.com/Iron-Ham/lightgit/internal/event"
	"github.com/Iron-Ham/lightgit/internal/lifetime"
	"github.com/Iron-Ham/lightgit/internal/logging"
	"github.com/Iron-Ham/lightgit/internal/singletask"
)

// DefaultLookupTimeout bounds a single lookup unless overridden with
// WithLookupTimeout.
const DefaultLookupTimeout = 5 * time.Second

// controllerName identifies the tracker's controller in logs.
const controllerName = "light git tracker"

// Listener is called after every published location change, clears
// included.
type Listener func()

// SelectionSource reports the file the host currently considers active.
type SelectionSource interface {
	SelectedFile() (path string, ok bool)
}

// Locator resolves the location of dir using the given git executable.
type Locator interface {
	Locate(ctx context.Context, dir, executable string) (string, error)
}

// ExecutableFunc returns the git executable to use. It is called right
// before every lookup.
type ExecutableFunc func() string

// request is one queued lookup. generation is the clear count observed when
// the request was made.
type request struct {
	dir        string
	generation uint64
}

type result struct {
	location   Location
	generation uint64
}

// Tracker publishes the git location of the active file's directory.
type Tracker struct {
	source        SelectionSource
	locator       Locator
	executable    ExecutableFunc
	logger        *logging.Logger
	bus           *event.Bus
	clearOnSelect bool
	lookupTimeout time.Duration

	scope *lifetime.Scope
	tasks *singletask.Controller[request, result]

	mu            sync.Mutex
	location      Location
	generation    uint64
	listeners     map[uint64]Listener
	nextListener  uint64
	disposed      bool
	dispatching   bool
	pendingRounds int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithBus connects the tracker to a host event bus. The tracker follows
// selection and frame activation events published on it and publishes a
// LocationUpdatedEvent after every change.
func WithBus(bus *event.Bus) Option {
	return func(t *Tracker) {
		t.bus = bus
	}
}

// WithClearOnSelect makes every selection publish Unknown before its lookup
// is queued, so the old location is never shown next to a new file.
func WithClearOnSelect(enabled bool) Option {
	return func(t *Tracker) {
		t.clearOnSelect = enabled
	}
}

// WithLookupTimeout bounds each lookup. Zero disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.lookupTimeout = d
		}
	}
}

// New creates a Tracker bound to a child of scope. Disposing scope (or
// calling Close) unsubscribes the tracker from host events, drops pending
// lookups and stops listener notification.
func New(source SelectionSource, locator Locator, executable ExecutableFunc, scope *lifetime.Scope, opts ...Option) *Tracker {
	t := &Tracker{
		source:        source,
		locator:       locator,
		executable:    executable,
		logger:        logging.NopLogger(),
		lookupTimeout: DefaultLookupTimeout,
		listeners:     make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("tracker")

	t.tasks = singletask.New(controllerName, t.process, t.publish, singletask.WithLogger(t.logger))

	t.scope = scope.Child(controllerName)
	t.scope.OnDispose(t.dispose)

	if t.bus != nil {
		t.bus.SubscribeScoped(event.TypeSelectionChanged, func(e event.Event) {
			if sel, ok := e.(event.SelectionChangedEvent); ok {
				t.OnSelectionChanged(sel.Path)
			}
		}, t.scope)
		t.bus.SubscribeScoped(event.TypeFrameActivated, func(event.Event) {
			t.OnFrameActivated()
		}, t.scope)
	}

	return t
}

// AddUpdateListener registers listener until scope is disposed.
func (t *Tracker) AddUpdateListener(listener Listener, scope *lifetime.Scope) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	id := t.nextListener
	t.nextListener++
	t.listeners[id] = listener
	t.mu.Unlock()

	scope.OnDispose(func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	})
}

// CurrentLocation returns the last published location.
func (t *Tracker) CurrentLocation() Location {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// OnSelectionChanged reacts to the host's active file changing. An empty
// path means no file is selected: Unknown is published immediately.
// Otherwise a lookup of the file's directory is queued. It never blocks on
// the lookup.
func (t *Tracker) OnSelectionChanged(path string) {
	if path == "" || t.clearOnSelect {
		t.clearLocation()
	}
	if path == "" {
		return
	}

	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	req := request{dir: filepath.Dir(path), generation: t.generation}
	t.mu.Unlock()

	t.logger.Debug("lookup requested", "dir", req.dir)
	t.tasks.Request(req)
}

// OnFrameActivated repeats the lookup for the file that is still selected,
// picking up git changes made while the host was in the background.
func (t *Tracker) OnFrameActivated() {
	var path string
	if t.source != nil {
		if selected, ok := t.source.SelectedFile(); ok {
			path = selected
		}
	}
	t.OnSelectionChanged(path)
}

// Close disposes the tracker. A lookup in flight may finish but its result
// is discarded.
func (t *Tracker) Close() {
	t.scope.Dispose()
}

// Wait blocks until no lookup is running or queued.
func (t *Tracker) Wait() {
	t.tasks.Wait()
}

// Busy reports whether a lookup pass is running.
func (t *Tracker) Busy() bool {
	return t.tasks.Busy()
}

func (t *Tracker) dispose() {
	t.mu.Lock()
	t.disposed = true
	clear(t.listeners)
	t.mu.Unlock()

	t.tasks.Close()
	t.logger.Debug("tracker disposed")
}

// clearLocation publishes Unknown and invalidates results of batches drawn before it.
func (t *Tracker) clearLocation() {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	t.generation++
	t.location = Unknown()
	t.mu.Unlock()

	t.logger.Debug("location cleared")
	t.notify()
}

// process runs on the controller's worker and resolves only the newest
// request of the batch.
func (t *Tracker) process(ctx context.Context, batch []request) result {
	last := batch[len(batch)-1]
	t.logger.Debug("batch drawn", "size", len(batch), "dir", last.dir)

	return result{
		location:   t.lookup(ctx, last.dir),
		generation: last.generation,
	}
}

// lookup resolves dir, mapping every failure to Unknown.
func (t *Tracker) lookup(ctx context.Context, dir string) Location {
	if t.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.lookupTimeout)
		defer cancel()
	}

	var (
		name string
		err  error
	)
	var pc panics.Catcher
	pc.Try(func() {
		name, err = t.locator.Locate(ctx, dir, t.executable())
	})

	log := t.logger.WithDirectory(dir)
	if r := pc.Recovered(); r != nil {
		err = errors.NewLookupError(dir, fmt.Errorf("locator panicked: %v", r.Value))
		log.Debug("lookup panicked", "error", err.Error(), "stack", string(r.Stack))
		return Unknown()
	}
	if err != nil {
		err = errors.NewLookupError(dir, err)
		log.Debug("lookup failed", "error", err.Error(), "retryable", errors.IsRetryable(err))
		return Unknown()
	}
	if name == "" {
		return Unknown()
	}
	log.Debug("lookup finished", "location", name)
	return Known(name)
}

// publish stores a batch result unless the tracker was disposed or cleared
// after the batch's request was made.
func (t *Tracker) publish(r result) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	if r.generation != t.generation {
		t.mu.Unlock()
		t.logger.Debug("discarding result superseded by clear", "location", r.location.String())
		return
	}
	t.location = r.location
	t.mu.Unlock()

	t.notify()
}

// snapshotListeners must be called with t.mu held.
func (t *Tracker) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(t.listeners))
	for _, l := range t.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}

// notify runs one delivery round per call. Rounds never overlap: a call
// made while another goroutine (or a listener) is delivering only queues its
// round, and the running dispatcher delivers it before returning. Each round
// reads the location when it starts, so the last round delivered always
// carries the current location.
func (t *Tracker) notify() {
	t.mu.Lock()
	t.pendingRounds++
	if t.dispatching {
		t.mu.Unlock()
		return
	}
	t.dispatching = true
	for t.pendingRounds > 0 && !t.disposed {
		t.pendingRounds--
		loc := t.location
		listeners := t.snapshotListeners()
		t.mu.Unlock()

		t.deliver(listeners, loc)

		t.mu.Lock()
	}
	t.pendingRounds = 0
	t.dispatching = false
	t.mu.Unlock()
}

func (t *Tracker) deliver(listeners []Listener, loc Location) {
	for _, listener := range listeners {
		var pc panics.Catcher
		pc.Try(listener)
		if r := pc.Recovered(); r != nil {
			t.logger.Error("update listener panicked",
				"panic", r.Value,
				"stack", string(r.Stack),
			)
		}
	}

	if t.bus != nil {
		t.bus.Publish(event.NewLocationUpdatedEvent(loc.String(), loc.IsKnown()))
	}
}
