package otel

import (
	"context"
	"fmt"

	"github.com/terraskye/dispatch"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type eventWriterTelemetry struct {
	next dispatch.EventWriter
}

func (w *eventWriterTelemetry) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("events.write %s", event.Name()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrEventName.String(event.Name())),
	)
	defer span.End()

	err := w.next.Write(ctx, event)

	EventsPersisted.Add(ctx, 1, metric.WithAttributes(AttrEventName.String(event.Name())))

	if err != nil {
		span.SetAttributes(AttrErrorType.String(fmt.Sprintf("%T", err)))
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// WithWriterTelemetry wraps an EventWriter with tracing and metrics.
func WithWriterTelemetry(next dispatch.EventWriter) dispatch.EventWriter {
	return &eventWriterTelemetry{next: next}
}
