package event

import (
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/lightgit/internal/lifetime"
	"github.com/Iron-Ham/lightgit/internal/logging"
)

// AllEvents is the event type matched by SubscribeAll handlers.
const AllEvents = "*"

// Handler is a function that handles an event.
type Handler func(Event)

type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub event bus. Handlers run on the publishing
// goroutine, those registered for the event's type first and then those
// registered with SubscribeAll, each group in registration order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID atomic.Uint64
	logger *logging.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used to report recovered handler panics.
func WithLogger(logger *logging.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for eventType and returns an ID for
// Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	id := "sub-" + strconv.FormatUint(b.nextID.Add(1), 10)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, handler: handler})
	return id
}

// SubscribeAll registers handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(AllEvents, handler)
}

// SubscribeScoped registers a handler that is removed when scope is
// disposed. Nothing is registered on an already disposed scope.
func (b *Bus) SubscribeScoped(eventType string, handler Handler, scope *lifetime.Scope) {
	if scope.Disposed() {
		return
	}
	id := b.Subscribe(eventType, handler)
	scope.OnDispose(func() {
		b.Unsubscribe(id)
	})
}

// Unsubscribe removes a subscription and reports whether it existed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	before := len(b.subs)
	b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
	return len(b.subs) != before
}

// Publish delivers event to every matching handler. A panicking handler is
// logged and the remaining handlers still run.
func (b *Bus) Publish(event Event) {
	eventType := event.EventType()

	b.mu.RLock()
	var specific, wildcard []Handler
	for _, s := range b.subs {
		switch s.eventType {
		case eventType:
			specific = append(specific, s.handler)
		case AllEvents:
			wildcard = append(wildcard, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range append(specific, wildcard...) {
		b.deliver(h, event)
	}
}

func (b *Bus) deliver(handler Handler, event Event) {
	var pc panics.Catcher
	pc.Try(func() { handler(event) })
	if r := pc.Recovered(); r != nil {
		b.logger.Error("event handler panicked",
			"event_type", event.EventType(),
			"panic", r.Value,
			"stack", string(r.Stack),
		)
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
