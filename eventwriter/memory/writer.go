// Package memory provides an in-memory EventWriter, mainly for tests and
// examples.
package memory

import (
	"context"
	"sync"

	"github.com/terraskye/dispatch"
)

var _ dispatch.EventWriter = (*Writer)(nil)

// Writer keeps every written event in memory, in write order.
type Writer struct {
	mu     sync.RWMutex
	events []dispatch.SerializedEvent
}

// New creates an empty Writer.
func New() *Writer {
	return &Writer{}
}

// Write implements dispatch.EventWriter.
func (w *Writer) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	return nil
}

// Events returns a copy of the written events, in write order.
func (w *Writer) Events() []dispatch.SerializedEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]dispatch.SerializedEvent, len(w.events))
	copy(out, w.events)
	return out
}

// Load replays the written events.
func (w *Writer) Load(ctx context.Context) *dispatch.Iterator[dispatch.SerializedEvent] {
	return dispatch.NewSliceIterator(w.Events())
}

// Reset discards all written events.
func (w *Writer) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = nil
}
