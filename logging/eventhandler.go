package logging

import (
	"context"
	"log/slog"

	"github.com/terraskye/dispatch"
)

type eventHandlerLogger[C any] struct {
	logger *slog.Logger
	next   dispatch.EventHandler[C]
}

func (h *eventHandlerLogger[C]) EventNames() []string {
	return h.next.EventNames()
}

func (h *eventHandlerLogger[C]) Handle(ctx context.Context, state C, event *dispatch.SerializedEvent) (dispatch.Commands, error) {
	l := h.logger.With(
		"event", event.Name(),
		"command", dispatch.CommandNameFromContext(ctx),
	)

	l.DebugContext(ctx, "event processing started")

	commands, err := h.next.Handle(ctx, state, event)

	if err != nil {
		l.ErrorContext(ctx, "error processing event", "error", err)
	} else {
		l.DebugContext(ctx, "event processed successfully", "commands", len(commands))
	}

	return commands, err
}

// WithEventLogging wraps an EventHandler with structured logging.
func WithEventLogging[C any](logger *slog.Logger, next dispatch.EventHandler[C]) dispatch.EventHandler[C] {
	return &eventHandlerLogger[C]{
		logger: logger,
		next:   next,
	}
}
