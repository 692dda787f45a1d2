package dispatch

import (
	"context"
	"slices"
)

// EventHandler reacts to persisted events of the names it subscribes to and
// may issue new commands. Several handlers can subscribe to the same name;
// the bus invokes all of them, in registration order. C is the
// caller-supplied mutable state, as for CommandHandler.
type EventHandler[C any] interface {
	// EventNames are the names of the handled events.
	EventNames() []string

	// Handle reacts to an event with the given state.
	Handle(ctx context.Context, state C, event *SerializedEvent) (Commands, error)
}

// eventHandlerFunc adapts a plain function plus an explicit name list.
type eventHandlerFunc[C any] struct {
	names []string
	fn    func(ctx context.Context, state C, event *SerializedEvent) (Commands, error)
}

func (h *eventHandlerFunc[C]) EventNames() []string {
	return h.names
}

func (h *eventHandlerFunc[C]) Handle(ctx context.Context, state C, event *SerializedEvent) (Commands, error) {
	return h.fn(ctx, state, event)
}

// NewEventHandlerFunc creates an EventHandler from a plain function and the
// event names it subscribes to. The function receives the raw serialized
// event; use OnEvent for a typed handler.
func NewEventHandlerFunc[C any](names []string, fn func(ctx context.Context, state C, event *SerializedEvent) (Commands, error)) EventHandler[C] {
	return &eventHandlerFunc[C]{names: names, fn: fn}
}

// typedEventHandler is a strongly-typed handler for a specific event type.
type typedEventHandler[T Event, C any] struct {
	fn func(ctx context.Context, state C, event T) (Commands, error)
}

func (h *typedEventHandler[T, C]) EventNames() []string {
	var zero T
	return []string{zero.EventName()}
}

func (h *typedEventHandler[T, C]) Handle(ctx context.Context, state C, event *SerializedEvent) (Commands, error) {
	concrete, err := DeserializeEvent[T](*event)
	if err != nil {
		return nil, err
	}
	return h.fn(ctx, state, concrete)
}

// OnEvent creates a strongly-typed EventHandler subscribed to T's declared
// name. The serialized event is decoded to T before fn runs.
//
// Example:
//
//	handler := dispatch.OnEvent(func(ctx context.Context, state *App, ev TodoCreated) (dispatch.Commands, error) {
//	    state.Summary.New++
//	    return nil, nil
//	})
func OnEvent[T Event, C any](fn func(ctx context.Context, state C, event T) (Commands, error)) EventHandler[C] {
	return &typedEventHandler[T, C]{fn: fn}
}

// EventGroup bundles several event handlers into one handler subscribed to
// the union of their names. On Handle it invokes every member subscribed to
// the event's name, in the order the members were passed, and concatenates
// the commands they return.
type EventGroup[C any] struct {
	handlers []EventHandler[C]
	names    []string
}

// NewEventGroup creates an EventGroup from the given handlers.
func NewEventGroup[C any](handlers ...EventHandler[C]) *EventGroup[C] {
	group := &EventGroup[C]{handlers: handlers}
	for _, handler := range handlers {
		for _, name := range handler.EventNames() {
			if !slices.Contains(group.names, name) {
				group.names = append(group.names, name)
			}
		}
	}
	return group
}

func (g *EventGroup[C]) EventNames() []string {
	return g.names
}

func (g *EventGroup[C]) Handle(ctx context.Context, state C, event *SerializedEvent) (Commands, error) {
	var commands Commands
	for _, handler := range g.handlers {
		if !slices.Contains(handler.EventNames(), event.Name()) {
			continue
		}
		next, err := handler.Handle(ctx, state, event)
		if err != nil {
			return nil, err
		}
		commands = append(commands, next...)
	}
	return commands, nil
}
