package engine

import (
	"sync"
	"time"
)

// EventType identifies the kind of tracking activity flowing through the bus.
type EventType int

const (
	EventVehicleCheckedIn EventType = iota + 1
	EventStageStarted
	EventStageCompleted
	EventVehicleExited
	EventVehiclesReset
)

// Event is the envelope delivered to listeners. Timestamp is stamped at
// emission when the producer leaves it zero.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   interface{}
}

// SubscriberID identifies a registered listener for later removal.
type SubscriberID uint64

// SubscriberFunc receives each matching event on the emitting goroutine.
type SubscriberFunc func(Event)

type listener struct {
	id SubscriberID
	fn SubscriberFunc
	// nil accepts every event type
	types map[EventType]struct{}
}

// EventBus fans tracking activity out to listeners synchronously, in
// registration order. The metrics wiring, the SSE hub, and the messaging
// recorder all hang off the one bus owned by the Engine.
type EventBus struct {
	mu        sync.RWMutex
	listeners []listener
	lastID    SubscriberID
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every event type.
func (eb *EventBus) Subscribe(fn SubscriberFunc) SubscriberID {
	return eb.add(fn, nil)
}

// SubscribeTypes registers a listener for the given event types only.
func (eb *EventBus) SubscribeTypes(fn SubscriberFunc, types ...EventType) SubscriberID {
	accept := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		accept[t] = struct{}{}
	}
	return eb.add(fn, accept)
}

func (eb *EventBus) add(fn SubscriberFunc, types map[EventType]struct{}) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.lastID++
	eb.listeners = append(eb.listeners, listener{id: eb.lastID, fn: fn, types: types})
	return eb.lastID
}

// Unsubscribe removes a listener by ID.
func (eb *EventBus) Unsubscribe(id SubscriberID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, l := range eb.listeners {
		if l.id == id {
			eb.listeners = append(eb.listeners[:i], eb.listeners[i+1:]...)
			return
		}
	}
}

// Emit delivers an event to every matching listener before returning.
// Listeners run on the emitting goroutine, so a submission is not
// acknowledged until its metrics, SSE broadcast, and outbox enqueue are done.
func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	eb.mu.RLock()
	active := make([]listener, len(eb.listeners))
	copy(active, eb.listeners)
	eb.mu.RUnlock()

	for _, l := range active {
		if l.types != nil {
			if _, ok := l.types[evt.Type]; !ok {
				continue
			}
		}
		l.fn(evt)
	}
}
