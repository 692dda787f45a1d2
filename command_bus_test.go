package dispatch

import (
	"context"
	"errors"
	"testing"
)

type purgeNote struct {
	NoteID string
}

func (purgeNote) CommandName() string { return "purge-note" }

type notePurged struct {
	NoteID string `json:"note_id"`
}

func (notePurged) EventName() string { return "note-purged" }

func TestExecute_UnknownCommand(t *testing.T) {
	writer := &recordingWriter{}
	bus, err := NewCommandBus(NewConfiguration[*testState]().EventWriter(writer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = bus.Execute(context.Background(), &testState{}, addNote{NoteID: "n1"})

	var unknown *UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected an UnknownCommandError, got %T", err)
	}
	if unknown.Name != "add-note" {
		t.Fatalf("unexpected name %q", unknown.Name)
	}
	if len(writer.written) != 0 {
		t.Fatalf("nothing must be persisted: %v", writer.names())
	}
}

func TestExecute_PersistsBeforeHandlers(t *testing.T) {
	state := &testState{}
	writer := &recordingWriter{state: state}

	configuration := NewConfiguration[*testState]().
		EventWriter(writer).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return NewEvents(noteAdded{NoteID: cmd.NoteID})
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("handle note-added")
			return nil, nil
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.Execute(context.Background(), state, addNote{NoteID: "n1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"write note-added", "handle note-added"}
	if !equalStrings(state.steps(), want) {
		t.Fatalf("expected %v, got %v", want, state.steps())
	}
}

// A command cascade runs breadth-first: all events of one command are
// persisted and handled before any command issued by those handlers runs.
func TestExecute_BreadthFirstCascade(t *testing.T) {
	state := &testState{}
	writer := &recordingWriter{state: state}

	configuration := NewConfiguration[*testState]().
		EventWriter(writer).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			state.record("cmd add-note")
			return NewEvents(noteAdded{NoteID: cmd.NoteID}, noteArchived{NoteID: cmd.NoteID})
		})).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd archiveNote) (Events, error) {
			state.record("cmd archive-note")
			return NewEvents(notePurged{NoteID: cmd.NoteID})
		})).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd purgeNote) (Events, error) {
			state.record("cmd purge-note")
			return nil, nil
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("evt note-added")
			return NewCommands(archiveNote{NoteID: event.NoteID}), nil
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteArchived) (Commands, error) {
			state.record("evt note-archived")
			return NewCommands(purgeNote{NoteID: event.NoteID}), nil
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.Execute(context.Background(), state, addNote{NoteID: "n1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"cmd add-note",
		"write note-added",
		"evt note-added",
		"write note-archived",
		"evt note-archived",
		"cmd archive-note",
		"write note-purged",
		"cmd purge-note",
	}
	if !equalStrings(state.steps(), want) {
		t.Fatalf("expected %v, got %v", want, state.steps())
	}
}

func TestExecute_SubscribersRunInRegistrationOrder(t *testing.T) {
	state := &testState{}

	configuration := NewConfiguration[*testState]().
		EventWriter(&recordingWriter{}).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return NewEvents(noteAdded{NoteID: cmd.NoteID})
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("first")
			return nil, nil
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("second")
			return nil, nil
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.Execute(context.Background(), state, addNote{NoteID: "n1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalStrings(state.steps(), []string{"first", "second"}) {
		t.Fatalf("unexpected order: %v", state.steps())
	}
}

func TestExecute_CommandHandlerError(t *testing.T) {
	boom := errors.New("boom")

	configuration := NewConfiguration[*testState]().
		EventWriter(&recordingWriter{}).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return nil, boom
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = bus.Execute(context.Background(), &testState{}, addNote{NoteID: "n1"})

	var handlerErr *HandlerError
	if !errors.As(err, &handlerErr) {
		t.Fatalf("expected a HandlerError, got %T", err)
	}
	if handlerErr.Name != "add-note" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// A write failure aborts the call: the failing event and everything after it
// are neither persisted nor handled, while earlier writes remain committed.
func TestExecute_WriteFailureIsFatal(t *testing.T) {
	boom := errors.New("disk full")
	state := &testState{}
	writer := &recordingWriter{state: state, failName: "note-archived", err: boom}

	configuration := NewConfiguration[*testState]().
		EventWriter(writer).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return NewEvents(
				noteAdded{NoteID: cmd.NoteID},
				noteArchived{NoteID: cmd.NoteID},
				notePurged{NoteID: cmd.NoteID},
			)
		})).
		EventHandler(NewEventHandlerFunc([]string{"note-added", "note-archived", "note-purged"},
			func(ctx context.Context, state *testState, event *SerializedEvent) (Commands, error) {
				state.record("evt " + event.Name())
				return nil, nil
			}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = bus.Execute(context.Background(), state, addNote{NoteID: "n1"})

	var persistErr *PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected a PersistenceError, got %T", err)
	}
	if persistErr.EventName != "note-archived" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalStrings(writer.names(), []string{"note-added"}) {
		t.Fatalf("unexpected writes: %v", writer.names())
	}
	if !equalStrings(state.steps(), []string{"write note-added", "evt note-added"}) {
		t.Fatalf("unexpected steps: %v", state.steps())
	}
}

func TestExecute_EventHandlerErrorStopsCascade(t *testing.T) {
	boom := errors.New("boom")
	writer := &recordingWriter{}

	configuration := NewConfiguration[*testState]().
		EventWriter(writer).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return NewEvents(noteAdded{NoteID: cmd.NoteID}, noteArchived{NoteID: cmd.NoteID})
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			return nil, boom
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = bus.Execute(context.Background(), &testState{}, addNote{NoteID: "n1"})

	var handlerErr *HandlerError
	if !errors.As(err, &handlerErr) {
		t.Fatalf("expected a HandlerError, got %T", err)
	}
	if handlerErr.Name != "note-added" {
		t.Fatalf("unexpected name %q", handlerErr.Name)
	}
	// The first event was persisted before its handler failed; the second
	// event of the same batch never made it to the writer.
	if !equalStrings(writer.names(), []string{"note-added"}) {
		t.Fatalf("unexpected writes: %v", writer.names())
	}
}

func TestExecute_IterationLimit(t *testing.T) {
	writer := &recordingWriter{}

	// add-note perpetually re-triggers itself through its event handler.
	configuration := NewConfiguration[*testState]().
		EventWriter(writer).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			return NewEvents(noteAdded{NoteID: cmd.NoteID})
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			return NewCommands(addNote{NoteID: event.NoteID}), nil
		}))

	bus, err := NewCommandBus(configuration, WithIterationLimit(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = bus.Execute(context.Background(), &testState{}, addNote{NoteID: "n1"})

	var limitErr *IterationLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected an IterationLimitError, got %T", err)
	}
	if limitErr.Limit != 3 {
		t.Fatalf("unexpected limit %d", limitErr.Limit)
	}
	// Three commands executed, three events persisted, then the guard fired.
	if len(writer.written) != 3 {
		t.Fatalf("expected 3 persisted events, got %d", len(writer.written))
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	configuration := NewConfiguration[*testState]().
		EventWriter(&recordingWriter{}).
		CommandHandler(addNoteHandler())

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bus.Execute(ctx, &testState{}, addNote{NoteID: "n1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecute_HandlersSeeDispatchNames(t *testing.T) {
	state := &testState{}

	configuration := NewConfiguration[*testState]().
		EventWriter(&recordingWriter{}).
		CommandHandler(HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
			state.record("cmd sees " + CommandNameFromContext(ctx))
			return NewEvents(noteAdded{NoteID: cmd.NoteID})
		})).
		EventHandler(OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("evt sees " + EventNameFromContext(ctx) + " from " + CommandNameFromContext(ctx))
			return nil, nil
		}))

	bus, err := NewCommandBus(configuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.Execute(context.Background(), state, addNote{NoteID: "n1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Event handlers see both the event name and the command that caused it.
	want := []string{"cmd sees add-note", "evt sees note-added from add-note"}
	if !equalStrings(state.steps(), want) {
		t.Fatalf("expected %v, got %v", want, state.steps())
	}
}
