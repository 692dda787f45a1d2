package otel

import (
	"github.com/terraskye/dispatch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/terraskye/dispatch"
)

// Semantic attribute keys following OpenTelemetry conventions
const (
	AttrCommandName = attribute.Key("dispatch.command.name")
	AttrEventName   = attribute.Key("dispatch.event.name")
	AttrEventCount  = attribute.Key("dispatch.events.count")
	AttrErrorType   = attribute.Key("dispatch.error.type")
)

var (
	meter  = otel.Meter(instrumentationName, metric.WithInstrumentationVersion(dispatch.InstrumentationVersion))
	tracer = otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(dispatch.InstrumentationVersion))

	// Command metrics
	CommandsHandled, _ = meter.Int64Counter(
		"dispatch.commands.handled",
		metric.WithDescription("Total number of commands handled"),
		metric.WithUnit("{command}"),
	)

	CommandsDuration, _ = meter.Float64Histogram(
		"dispatch.commands.duration",
		metric.WithDescription("Command handling duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	CommandsFailed, _ = meter.Int64Counter(
		"dispatch.commands.failed",
		metric.WithDescription("Number of failed commands"),
		metric.WithUnit("{command}"),
	)

	// Event metrics
	EventsPersisted, _ = meter.Int64Counter(
		"dispatch.events.persisted",
		metric.WithDescription("Number of events handed to the event writer"),
		metric.WithUnit("{event}"),
	)

	EventsHandled, _ = meter.Int64Counter(
		"dispatch.events.handled",
		metric.WithDescription("Number of event handler invocations"),
		metric.WithUnit("{event}"),
	)

	EventsDuration, _ = meter.Float64Histogram(
		"dispatch.events.duration",
		metric.WithDescription("Event handling duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
)
