package otel

import (
	"context"
	"fmt"
	"time"

	"github.com/terraskye/dispatch"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type eventHandlerTelemetry[C any] struct {
	next dispatch.EventHandler[C]
}

func (h *eventHandlerTelemetry[C]) EventNames() []string {
	return h.next.EventNames()
}

func (h *eventHandlerTelemetry[C]) Handle(ctx context.Context, state C, event *dispatch.SerializedEvent) (dispatch.Commands, error) {
	attr := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrEventName.String(event.Name()),
			AttrCommandName.String(dispatch.CommandNameFromContext(ctx)),
		),
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("events.handle %s", event.Name()), attr...)
	defer span.End()

	startTime := time.Now()
	commands, err := h.next.Handle(ctx, state, event)

	EventsHandled.Add(ctx, 1, metric.WithAttributes(AttrEventName.String(event.Name())))
	EventsDuration.Record(ctx,
		float64(time.Since(startTime).Milliseconds()),
		metric.WithAttributes(AttrEventName.String(event.Name())),
	)

	if err != nil {
		span.SetAttributes(AttrErrorType.String(fmt.Sprintf("%T", err)))
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return commands, err
	}

	span.SetStatus(codes.Ok, "")
	return commands, nil
}

// WithEventTelemetry wraps an EventHandler with tracing and metrics.
func WithEventTelemetry[C any](next dispatch.EventHandler[C]) dispatch.EventHandler[C] {
	return &eventHandlerTelemetry[C]{next: next}
}
