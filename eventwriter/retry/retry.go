// Package retry decorates an EventWriter with a backoff retry strategy.
//
// The command bus itself never retries a failed write; wrapping the writer
// keeps that policy outside the dispatch loop.
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/terraskye/dispatch"
)

var _ dispatch.EventWriter = (*Writer)(nil)

// Writer retries failed writes of the wrapped writer.
type Writer struct {
	next        dispatch.EventWriter
	newStrategy func() backoff.BackOff
}

// New creates a retrying writer. newStrategy is called once per write, so a
// fresh backoff state is used for every event.
//
// Example:
//
//	writer := retry.New(inner, func() backoff.BackOff {
//	    return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
//	})
func New(next dispatch.EventWriter, newStrategy func() backoff.BackOff) *Writer {
	return &Writer{next: next, newStrategy: newStrategy}
}

// Write implements dispatch.EventWriter. It gives up as soon as the strategy
// does, returning the last write error.
func (w *Writer) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	return backoff.Retry(func() error {
		return w.next.Write(ctx, event)
	}, backoff.WithContext(w.newStrategy(), ctx))
}
