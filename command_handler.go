package dispatch

import "context"

// CommandHandler handles the single command name it declares and produces
// the resulting events. C is the caller-supplied mutable state threaded
// through every handler invocation of one Execute call.
//
// A handler must not persist its events; persistence is the bus's job, via
// the configured EventWriter.
type CommandHandler[C any] interface {
	// CommandName is the name of the handled command.
	CommandName() string

	// Handle executes a command against the given state.
	Handle(ctx context.Context, state C, command BoxedCommand) (Events, error)
}

// typedCommandHandler adapts a function on a concrete command type.
type typedCommandHandler[T Command, C any] struct {
	fn func(ctx context.Context, state C, command T) (Events, error)
}

func (h *typedCommandHandler[T, C]) CommandName() string {
	var zero T
	return zero.CommandName()
}

func (h *typedCommandHandler[T, C]) Handle(ctx context.Context, state C, command BoxedCommand) (Events, error) {
	// The bus routes by name before calling Handle, so a failing downcast
	// here means the routing tables are broken.
	concrete, err := DowncastCommand[T](command)
	if err != nil {
		return nil, err
	}
	return h.fn(ctx, state, concrete)
}

// HandleCommand creates a strongly-typed CommandHandler for a specific
// command type. The handler answers to T's declared name and recovers the
// concrete command before invoking fn.
//
// Example:
//
//	handler := dispatch.HandleCommand(func(ctx context.Context, state *App, cmd CreateTodo) (dispatch.Events, error) {
//	    return dispatch.NewEvents(TodoCreated{ID: cmd.ID, Name: cmd.Name})
//	})
func HandleCommand[T Command, C any](fn func(ctx context.Context, state C, command T) (Events, error)) CommandHandler[C] {
	return &typedCommandHandler[T, C]{fn: fn}
}
