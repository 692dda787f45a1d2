// Package metrics exposes Prometheus instrumentation for a command bus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/terraskye/dispatch"
)

// Metrics holds the Prometheus collectors for command and event activity.
type Metrics struct {
	CommandsExecuted *prometheus.CounterVec
	CommandsFailed   *prometheus.CounterVec
	EventsPersisted  *prometheus.CounterVec
}

// New creates and registers the collectors on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the collectors and registers them on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CommandsExecuted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_commands_executed_total",
			Help: "Total number of commands executed, by command name",
		}, []string{"command"}),
		CommandsFailed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_commands_failed_total",
			Help: "Total number of failed commands, by command name",
		}, []string{"command"}),
		EventsPersisted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_events_persisted_total",
			Help: "Total number of events handed to the event writer, by event name",
		}, []string{"event"}),
	}
}

type commandHandlerMetrics[C any] struct {
	metrics *Metrics
	next    dispatch.CommandHandler[C]
}

func (h *commandHandlerMetrics[C]) CommandName() string {
	return h.next.CommandName()
}

func (h *commandHandlerMetrics[C]) Handle(ctx context.Context, state C, command dispatch.BoxedCommand) (dispatch.Events, error) {
	events, err := h.next.Handle(ctx, state, command)
	h.metrics.CommandsExecuted.WithLabelValues(command.Name()).Inc()
	if err != nil {
		h.metrics.CommandsFailed.WithLabelValues(command.Name()).Inc()
	}
	return events, err
}

// WithCommandMetrics counts executions and failures of a command handler.
func WithCommandMetrics[C any](m *Metrics, next dispatch.CommandHandler[C]) dispatch.CommandHandler[C] {
	return &commandHandlerMetrics[C]{metrics: m, next: next}
}

type eventWriterMetrics struct {
	metrics *Metrics
	next    dispatch.EventWriter
}

func (w *eventWriterMetrics) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	if err := w.next.Write(ctx, event); err != nil {
		return err
	}
	w.metrics.EventsPersisted.WithLabelValues(event.Name()).Inc()
	return nil
}

// WithWriterMetrics counts events successfully persisted by a writer.
func WithWriterMetrics(m *Metrics, next dispatch.EventWriter) dispatch.EventWriter {
	return &eventWriterMetrics{metrics: m, next: next}
}
