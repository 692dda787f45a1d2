package logging

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/terraskye/dispatch"
)

type commandHandlerLogger[C any] struct {
	logger *logrus.Entry
	next   dispatch.CommandHandler[C]
}

func (h *commandHandlerLogger[C]) CommandName() string {
	return h.next.CommandName()
}

func (h *commandHandlerLogger[C]) Handle(ctx context.Context, state C, command dispatch.BoxedCommand) (dispatch.Events, error) {
	h.logger.Infof("Dispatch: %s", command.Name())

	events, err := h.next.Handle(ctx, state, command)
	if err != nil {
		h.logger.Errorf("Dispatch failed: %s: %v", command.Name(), err)
	}

	return events, err
}

// WithCommandLogging wraps a CommandHandler with logging functionality.
// It logs the command name before execution, and logs errors if the command
// fails.
func WithCommandLogging[C any](logger *logrus.Entry, next dispatch.CommandHandler[C]) dispatch.CommandHandler[C] {
	return &commandHandlerLogger[C]{
		logger: logger,
		next:   next,
	}
}
