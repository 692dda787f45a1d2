package logging

import (
	"context"
	"log/slog"

	"github.com/terraskye/dispatch"
)

type eventWriterLogger struct {
	logger *slog.Logger
	next   dispatch.EventWriter
}

func (w *eventWriterLogger) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	err := w.next.Write(ctx, event)
	if err != nil {
		w.logger.ErrorContext(ctx, "error persisting event", "event", event.Name(), "error", err)
		return err
	}
	w.logger.DebugContext(ctx, "event persisted", "event", event.Name())
	return nil
}

// WithWriterLogging wraps an EventWriter with structured logging.
func WithWriterLogging(logger *slog.Logger, next dispatch.EventWriter) dispatch.EventWriter {
	return &eventWriterLogger{
		logger: logger,
		next:   next,
	}
}
