package fixtures

import (
	"context"
	"sync"

	"github.com/terraskye/dispatch"
)

// CommandHandlerSpy is a configurable mock CommandHandler for testing.
type CommandHandlerSpy[C any] struct {
	mu sync.Mutex

	// Name is the command name the spy answers to.
	Name string

	// Events returned by every successful invocation.
	Events dispatch.Events

	// Function override
	HandleFn func(ctx context.Context, state C, command dispatch.BoxedCommand) (dispatch.Events, error)

	// Call tracking
	HandleCalls int

	// Captured commands
	Received []dispatch.BoxedCommand

	handleErr error
}

// NewCommandHandlerSpy creates a spy answering to the given command name.
func NewCommandHandlerSpy[C any](name string) *CommandHandlerSpy[C] {
	return &CommandHandlerSpy[C]{Name: name}
}

// Returning sets the events every invocation returns.
func (h *CommandHandlerSpy[C]) Returning(events dispatch.Events) *CommandHandlerSpy[C] {
	h.Events = events
	return h
}

// FailOnHandle configures the handler to return an error.
func (h *CommandHandlerSpy[C]) FailOnHandle(err error) *CommandHandlerSpy[C] {
	h.handleErr = err
	return h
}

// CommandName implements CommandHandler.CommandName.
func (h *CommandHandlerSpy[C]) CommandName() string {
	return h.Name
}

// Handle implements CommandHandler.Handle.
func (h *CommandHandlerSpy[C]) Handle(ctx context.Context, state C, command dispatch.BoxedCommand) (dispatch.Events, error) {
	h.mu.Lock()
	h.HandleCalls++
	h.Received = append(h.Received, command)
	h.mu.Unlock()

	if h.HandleFn != nil {
		return h.HandleFn(ctx, state, command)
	}

	if h.handleErr != nil {
		return nil, h.handleErr
	}

	return h.Events, nil
}

// EventHandlerSpy is a configurable mock EventHandler for testing.
type EventHandlerSpy[C any] struct {
	mu sync.Mutex

	// Names are the event names the spy subscribes to.
	Names []string

	// Commands returned by every successful invocation.
	Commands dispatch.Commands

	// Function override
	HandleFn func(ctx context.Context, state C, event *dispatch.SerializedEvent) (dispatch.Commands, error)

	// Call tracking
	HandleCalls int

	// Captured events
	Received []dispatch.SerializedEvent

	handleErr error
}

// NewEventHandlerSpy creates a spy subscribed to the given event names.
func NewEventHandlerSpy[C any](names ...string) *EventHandlerSpy[C] {
	return &EventHandlerSpy[C]{Names: names}
}

// Returning sets the commands every invocation returns.
func (h *EventHandlerSpy[C]) Returning(commands dispatch.Commands) *EventHandlerSpy[C] {
	h.Commands = commands
	return h
}

// FailOnHandle configures the handler to return an error.
func (h *EventHandlerSpy[C]) FailOnHandle(err error) *EventHandlerSpy[C] {
	h.handleErr = err
	return h
}

// EventNames implements EventHandler.EventNames.
func (h *EventHandlerSpy[C]) EventNames() []string {
	return h.Names
}

// Handle implements EventHandler.Handle.
func (h *EventHandlerSpy[C]) Handle(ctx context.Context, state C, event *dispatch.SerializedEvent) (dispatch.Commands, error) {
	h.mu.Lock()
	h.HandleCalls++
	h.Received = append(h.Received, *event)
	h.mu.Unlock()

	if h.HandleFn != nil {
		return h.HandleFn(ctx, state, event)
	}

	if h.handleErr != nil {
		return nil, h.handleErr
	}

	return h.Commands, nil
}
