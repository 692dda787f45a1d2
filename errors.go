package dispatch

import (
	"errors"
	"fmt"
)

// Configuration errors reported by NewCommandBus.
var (
	// ErrDuplicateHandler marks a second command handler registered for a
	// name that already has one.
	ErrDuplicateHandler = errors.New("duplicate command handler")

	// ErrDuplicateWriter marks a second event writer registration.
	ErrDuplicateWriter = errors.New("event writer already registered")

	// ErrMissingEventWriter marks a configuration without an event writer.
	ErrMissingEventWriter = errors.New("no event writer registered")
)

// UnknownCommandError is returned by Execute when no command handler is
// registered for a submitted command's name. Fatal, never retried.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("no command handler registered for command %q", e.Name)
}

// TypeMismatchError is returned by a checked downcast whose expected name
// differs from the carrier's stored name. During dispatch this indicates a
// registration bug, not a normal error path.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %q, got %q", e.Expected, e.Actual)
}

// DeserializationError is returned when a stored event payload cannot be
// decoded to the requested concrete type.
type DeserializationError struct {
	Name string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize event %q: %v", e.Name, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// HandlerError wraps whatever error a command or event handler returned.
// Name is the command or event name the handler was invoked for.
type HandlerError struct {
	Name string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %q failed: %v", e.Name, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps an EventWriter failure. The failing event and every
// later one of the same handler invocation are not persisted; earlier writes
// remain committed.
type PersistenceError struct {
	EventName string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist event %q: %v", e.EventName, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IterationLimitError is returned by Execute when the opt-in
// WithIterationLimit guard is exceeded.
type IterationLimitError struct {
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("execute exceeded the limit of %d commands", e.Limit)
}
