// Package event provides the pub-sub bus that connects the host editor to
// the location tracker.
//
// The host publishes [SelectionChangedEvent] when the active file changes
// and [FrameActivatedEvent] when its window regains focus. The tracker
// subscribes to both and publishes [LocationUpdatedEvent] whenever the
// location it exposes changes.
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers are called synchronously on the
// publishing goroutine and are protected against panics.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	scope := lifetime.NewScope("statusbar")
//	defer scope.Dispose()
//
//	bus.SubscribeScoped(event.TypeLocationUpdated, func(e event.Event) {
//	    upd := e.(event.LocationUpdatedEvent)
//	    fmt.Println(upd.Location)
//	}, scope)
//
//	bus.Publish(event.NewSelectionChangedEvent("/src/app/main.go"))
package event
