package dispatch

import (
	"errors"
	"fmt"
)

// Configuration assembles the routing tables consumed by a CommandBus:
// exactly one EventWriter, at most one command handler per command name, and
// any number of event handlers per event name. Registration methods chain;
// problems such as duplicate command names are collected and reported by
// NewCommandBus, so misconfiguration fails at build time, not at dispatch
// time.
type Configuration[C any] struct {
	writer          EventWriter
	commandHandlers map[string]CommandHandler[C]
	eventHandlers   []EventHandler[C]
	errs            []error
}

// NewConfiguration creates an empty Configuration.
func NewConfiguration[C any]() *Configuration[C] {
	return &Configuration[C]{
		commandHandlers: make(map[string]CommandHandler[C]),
	}
}

// EventWriter registers the event persistence collaborator.
func (c *Configuration[C]) EventWriter(writer EventWriter) *Configuration[C] {
	if c.writer != nil {
		c.errs = append(c.errs, ErrDuplicateWriter)
		return c
	}
	c.writer = writer
	return c
}

// CommandHandler registers a handler under its declared command name.
func (c *Configuration[C]) CommandHandler(handler CommandHandler[C]) *Configuration[C] {
	name := handler.CommandName()
	if _, exists := c.commandHandlers[name]; exists {
		c.errs = append(c.errs, fmt.Errorf("command %q: %w", name, ErrDuplicateHandler))
		return c
	}
	c.commandHandlers[name] = handler
	return c
}

// EventHandler registers a handler for every event name it subscribes to.
// Handlers sharing a name run in the order they were registered.
func (c *Configuration[C]) EventHandler(handler EventHandler[C]) *Configuration[C] {
	c.eventHandlers = append(c.eventHandlers, handler)
	return c
}

// Merge folds another configuration into this one, re-checking the
// uniqueness constraints. Useful for composing per-module configurations.
// The other configuration's event handlers are appended after this one's.
func (c *Configuration[C]) Merge(other *Configuration[C]) *Configuration[C] {
	if other.writer != nil {
		c.EventWriter(other.writer)
	}
	for _, handler := range other.commandHandlers {
		c.CommandHandler(handler)
	}
	c.eventHandlers = append(c.eventHandlers, other.eventHandlers...)
	c.errs = append(c.errs, other.errs...)
	return c
}

// build validates the configuration and materializes the routing tables.
func (c *Configuration[C]) build() (EventWriter, map[string]CommandHandler[C], map[string][]EventHandler[C], error) {
	if len(c.errs) > 0 {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", errors.Join(c.errs...))
	}
	if c.writer == nil {
		return nil, nil, nil, ErrMissingEventWriter
	}

	eventHandlers := make(map[string][]EventHandler[C])
	for _, handler := range c.eventHandlers {
		for _, name := range handler.EventNames() {
			eventHandlers[name] = append(eventHandlers[name], handler)
		}
	}

	return c.writer, c.commandHandlers, eventHandlers, nil
}
