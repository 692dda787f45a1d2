package dispatch

import "context"

// EventWriter persists the events issued while executing a command. It can
// persist the events themselves, the result of applying them, or a mix of
// both. The bus calls Write exactly once per produced event, before that
// event's handlers run, and treats a failure as fatal to the Execute call.
// The bus never retries a failed write; retry, batching, and concurrency
// control are the writer's own concerns.
type EventWriter interface {
	// Write persists one event.
	Write(ctx context.Context, event SerializedEvent) error
}

// CommandBus executes commands and routes the resulting events. Execute
// runs the full cascade: the matching command handler produces events, each
// event is persisted and delivered to its subscribed event handlers, and any
// commands those return are executed through the same path until none
// remain.
//
// A bus is immutable once built and safe for concurrent Execute calls, as
// long as each call owns its state value exclusively.
type CommandBus[C any] struct {
	writer          EventWriter
	commandHandlers map[string]CommandHandler[C]
	eventHandlers   map[string][]EventHandler[C]
	iterationLimit  int
}

// BusOption customizes a CommandBus.
type BusOption func(*busOptions)

type busOptions struct {
	iterationLimit int
}

// WithIterationLimit bounds the number of commands one Execute call may
// process. The loop has no cycle detection: a handler graph that perpetually
// re-triggers itself runs forever, and bounding it is the caller's call.
// Zero, the default, means unlimited. When the limit is exceeded Execute
// aborts with an IterationLimitError; events persisted before that remain
// persisted.
func WithIterationLimit(n int) BusOption {
	return func(o *busOptions) {
		o.iterationLimit = n
	}
}

// NewCommandBus builds a bus from the given configuration. Registration
// problems (duplicate command names, missing or duplicate event writer) are
// reported here.
func NewCommandBus[C any](configuration *Configuration[C], options ...BusOption) (*CommandBus[C], error) {
	writer, commandHandlers, eventHandlers, err := configuration.build()
	if err != nil {
		return nil, err
	}

	opts := busOptions{}
	for _, option := range options {
		option(&opts)
	}

	return &CommandBus[C]{
		writer:          writer,
		commandHandlers: commandHandlers,
		eventHandlers:   eventHandlers,
		iterationLimit:  opts.iterationLimit,
	}, nil
}

// Execute runs a command with the provided state. The resulting events are
// persisted through the event writer, then the matching event handlers run;
// commands they issue are queued and executed the same way, breadth-first,
// until the queue drains.
//
// The first error anywhere in the cascade aborts the call and is returned
// as-is (wrapped in its engine error kind). Events persisted by earlier loop
// iterations remain persisted; the bus performs no rollback.
func (b *CommandBus[C]) Execute(ctx context.Context, state C, command Command) error {
	pending := Commands{Box(command)}
	executed := 0

	// FIFO order linearizes the command/event cascade breadth-first, so all
	// effects of one command are persisted before any command derived from
	// it executes.
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.iterationLimit > 0 && executed >= b.iterationLimit {
			return &IterationLimitError{Limit: b.iterationLimit}
		}

		boxed := pending[0]
		pending = pending[1:]
		executed++

		handler, ok := b.commandHandlerFor(boxed.Name())
		if !ok {
			return &UnknownCommandError{Name: boxed.Name()}
		}

		// The command name stays installed for the whole cascade of this
		// command, so event-handling middleware can attribute its work.
		cmdCtx := WithCommandName(ctx, boxed.Name())

		events, err := handler.Handle(cmdCtx, state, boxed)
		if err != nil {
			return &HandlerError{Name: boxed.Name(), Err: err}
		}

		for _, event := range events {
			commands, err := b.handleEvent(cmdCtx, state, event)
			if err != nil {
				return err
			}
			pending = append(pending, commands...)
		}
	}

	return nil
}

// handleEvent persists one event and runs its subscribed handlers in
// registration order, collecting the commands they issue.
func (b *CommandBus[C]) handleEvent(ctx context.Context, state C, event SerializedEvent) (Commands, error) {
	if err := b.writer.Write(ctx, event); err != nil {
		return nil, &PersistenceError{EventName: event.Name(), Err: err}
	}

	ctx = WithEventName(ctx, event.Name())

	var commands Commands
	for _, handler := range b.eventHandlersFor(event.Name()) {
		next, err := handler.Handle(ctx, state, &event)
		if err != nil {
			return nil, &HandlerError{Name: event.Name(), Err: err}
		}
		commands = append(commands, next...)
	}
	return commands, nil
}

func (b *CommandBus[C]) commandHandlerFor(name string) (CommandHandler[C], bool) {
	handler, ok := b.commandHandlers[name]
	return handler, ok
}

func (b *CommandBus[C]) eventHandlersFor(name string) []EventHandler[C] {
	return b.eventHandlers[name]
}
