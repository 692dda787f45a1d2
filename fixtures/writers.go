package fixtures

import (
	"context"
	"sync"

	"github.com/terraskye/dispatch"
)

// WriterSpy is a configurable mock EventWriter for testing. It records every
// written event and allows injecting failures.
type WriterSpy struct {
	mu sync.Mutex

	// Function override
	WriteFn func(ctx context.Context, event dispatch.SerializedEvent) error

	// Call tracking
	WriteCalls int

	// Captured events, in write order
	Written []dispatch.SerializedEvent

	// Error injection
	writeErr   error
	failOnCall int
}

// NewWriterSpy creates a new WriterSpy.
func NewWriterSpy() *WriterSpy {
	return &WriterSpy{}
}

// FailOnWrite configures the writer to fail every write with err.
func (w *WriterSpy) FailOnWrite(err error) *WriterSpy {
	w.writeErr = err
	return w
}

// FailOnCall configures the writer to fail only the n-th write (1-based).
// Earlier and later writes succeed and are recorded.
func (w *WriterSpy) FailOnCall(n int, err error) *WriterSpy {
	w.failOnCall = n
	w.writeErr = err
	return w
}

// Write implements EventWriter.Write.
func (w *WriterSpy) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	w.mu.Lock()
	w.WriteCalls++
	call := w.WriteCalls
	failing := w.writeErr != nil && (w.failOnCall == 0 || w.failOnCall == call)
	if !failing {
		w.Written = append(w.Written, event)
	}
	w.mu.Unlock()

	if w.WriteFn != nil {
		return w.WriteFn(ctx, event)
	}

	if failing {
		return w.writeErr
	}

	return nil
}

// Names returns the names of the recorded events, in write order.
func (w *WriterSpy) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, len(w.Written))
	for i, event := range w.Written {
		names[i] = event.Name()
	}
	return names
}

// Reset clears call counts, recorded events and injected errors.
func (w *WriterSpy) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.WriteCalls = 0
	w.Written = nil
	w.writeErr = nil
	w.failOnCall = 0
}
