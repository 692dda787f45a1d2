package dispatch

import (
	"encoding/json"
	"fmt"
)

// Event is a fact describing something that happened in the past. Like a
// Command, each concrete event type declares a process-wide unique name.
// Events always cross a persistence boundary, so they are serialized with
// encoding/json when issued; implementing types must round-trip through it.
//
// EventName must be callable on the zero value of the implementing type.
type Event interface {
	// EventName is the unique name of the event.
	EventName() string
}

// AggregateEvent is an Event that creates, updates, or deletes exactly one
// aggregate. An update affecting several aggregates must be modeled as one
// event per aggregate, never a single event naming several identifiers.
type AggregateEvent[A any, T comparable] interface {
	Event

	// AggregateID is the id of the affected aggregate.
	AggregateID() ID[A, T]
}

// SerializedEvent is an event captured as its name plus its JSON payload.
// The payload is never exposed except through DeserializeEvent and Data.
type SerializedEvent struct {
	name string
	data json.RawMessage
}

// SerializeEvent captures an event's name and JSON representation.
func SerializeEvent(event Event) (SerializedEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return SerializedEvent{}, fmt.Errorf("serialize event %q: %w", event.EventName(), err)
	}
	return SerializedEvent{name: event.EventName(), data: data}, nil
}

// NewSerializedEvent rebuilds a serialized event from its persisted parts.
// Intended for EventWriter implementations that replay stored events.
func NewSerializedEvent(name string, data []byte) SerializedEvent {
	return SerializedEvent{name: name, data: data}
}

// Name returns the declared name of the serialized event.
func (e SerializedEvent) Name() string {
	return e.name
}

// Data returns the JSON payload. Writers persist it verbatim.
func (e SerializedEvent) Data() []byte {
	return e.data
}

// DeserializeEvent recovers the concrete event from its serialized form. It
// fails with a TypeMismatchError when the stored name differs from T's name,
// and with a DeserializationError when the payload cannot be decoded.
func DeserializeEvent[T Event](event SerializedEvent) (T, error) {
	var out T
	if want := out.EventName(); want != event.name {
		return out, &TypeMismatchError{Expected: want, Actual: event.name}
	}
	if err := json.Unmarshal(event.data, &out); err != nil {
		return out, &DeserializationError{Name: event.name, Err: err}
	}
	return out, nil
}

// Events is an ordered collection of serialized events, as returned by a
// command handler invocation. The zero value is ready to use.
type Events []SerializedEvent

// Add serializes an event and appends it.
func (e *Events) Add(event Event) error {
	serialized, err := SerializeEvent(event)
	if err != nil {
		return err
	}
	*e = append(*e, serialized)
	return nil
}

// NewEvents serializes the given events, preserving their order.
func NewEvents(events ...Event) (Events, error) {
	out := make(Events, 0, len(events))
	for _, event := range events {
		if err := out.Add(event); err != nil {
			return nil, err
		}
	}
	return out, nil
}
