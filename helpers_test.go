package dispatch

import (
	"context"
	"sync"
)

// ---------------------- Test helpers / stubs ----------------------

type noteAdded struct {
	NoteID string `json:"note_id"`
	Text   string `json:"text"`
}

func (noteAdded) EventName() string { return "note-added" }

type noteArchived struct {
	NoteID string `json:"note_id"`
}

func (noteArchived) EventName() string { return "note-archived" }

type addNote struct {
	NoteID string
	Text   string
}

func (addNote) CommandName() string { return "add-note" }

type archiveNote struct {
	NoteID string
}

func (archiveNote) CommandName() string { return "archive-note" }

// testState records the order of observed side effects.
type testState struct {
	mu  sync.Mutex
	log []string
}

func (s *testState) record(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, step)
}

func (s *testState) steps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

// recordingWriter captures writes and can fail on a given event name.
type recordingWriter struct {
	written  []SerializedEvent
	state    *testState
	failName string
	err      error
}

func (w *recordingWriter) Write(ctx context.Context, event SerializedEvent) error {
	if w.failName != "" && event.Name() == w.failName {
		return w.err
	}
	w.written = append(w.written, event)
	if w.state != nil {
		w.state.record("write " + event.Name())
	}
	return nil
}

func (w *recordingWriter) names() []string {
	names := make([]string, len(w.written))
	for i, event := range w.written {
		names[i] = event.Name()
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
