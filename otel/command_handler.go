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

type commandHandlerTelemetry[C any] struct {
	next dispatch.CommandHandler[C]
}

func (h *commandHandlerTelemetry[C]) CommandName() string {
	return h.next.CommandName()
}

func (h *commandHandlerTelemetry[C]) Handle(ctx context.Context, state C, command dispatch.BoxedCommand) (dispatch.Events, error) {
	attr := AttrCommandName.String(command.Name())

	ctx, span := tracer.Start(ctx, fmt.Sprintf("commands.handle %s", command.Name()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attr),
	)
	defer span.End()

	startTime := time.Now()
	events, err := h.next.Handle(ctx, state, command)

	CommandsHandled.Add(ctx, 1, metric.WithAttributes(attr))
	CommandsDuration.Record(ctx,
		float64(time.Since(startTime).Milliseconds()),
		metric.WithAttributes(attr),
	)

	if err != nil {
		errAttr := AttrErrorType.String(fmt.Sprintf("%T", err))
		CommandsFailed.Add(ctx, 1, metric.WithAttributes(attr, errAttr))
		span.SetAttributes(errAttr)
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return events, err
	}

	span.SetAttributes(AttrEventCount.Int(len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}

// WithCommandTelemetry wraps a CommandHandler with tracing and metrics.
func WithCommandTelemetry[C any](next dispatch.CommandHandler[C]) dispatch.CommandHandler[C] {
	return &commandHandlerTelemetry[C]{next: next}
}
