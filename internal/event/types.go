// Package event defines the events exchanged between the host editor and the
// location tracker.
package event

import "time"

// Event type identifiers.
const (
	TypeSelectionChanged = "editor.selected"
	TypeFrameActivated   = "frame.activated"
	TypeLocationUpdated  = "location.updated"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "editor.selected").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Host Events
// -----------------------------------------------------------------------------

// SelectionChangedEvent is emitted by the host when the active file changes.
// An empty Path means no file is selected.
type SelectionChangedEvent struct {
	baseEvent
	Path string
}

// NewSelectionChangedEvent creates a SelectionChangedEvent.
func NewSelectionChangedEvent(path string) SelectionChangedEvent {
	return SelectionChangedEvent{
		baseEvent: newBaseEvent(TypeSelectionChanged),
		Path:      path,
	}
}

// FrameActivatedEvent is emitted by the host when its window regains focus.
type FrameActivatedEvent struct {
	baseEvent
}

// NewFrameActivatedEvent creates a FrameActivatedEvent.
func NewFrameActivatedEvent() FrameActivatedEvent {
	return FrameActivatedEvent{baseEvent: newBaseEvent(TypeFrameActivated)}
}

// -----------------------------------------------------------------------------
// Tracker Events
// -----------------------------------------------------------------------------

// LocationUpdatedEvent is emitted after the tracker publishes a location.
// Known is false when the location was cleared or could not be determined.
// Events are published one at a time and the last one always matches the
// tracker's current location.
type LocationUpdatedEvent struct {
	baseEvent
	Location string
	Known    bool
}

// NewLocationUpdatedEvent creates a LocationUpdatedEvent.
func NewLocationUpdatedEvent(location string, known bool) LocationUpdatedEvent {
	return LocationUpdatedEvent{
		baseEvent: newBaseEvent(TypeLocationUpdated),
		Location:  location,
		Known:     known,
	}
}
