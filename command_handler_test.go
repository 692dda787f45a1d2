package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestHandleCommand_Name(t *testing.T) {
	handler := HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
		return nil, nil
	})

	if handler.CommandName() != "add-note" {
		t.Fatalf("expected %q, got %q", "add-note", handler.CommandName())
	}
}

func TestHandleCommand_InvokesWithConcreteCommand(t *testing.T) {
	var received addNote
	handler := HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
		received = cmd
		return NewEvents(noteAdded{NoteID: cmd.NoteID, Text: cmd.Text})
	})

	events, err := handler.Handle(context.Background(), &testState{}, Box(addNote{NoteID: "n1", Text: "x"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.NoteID != "n1" || received.Text != "x" {
		t.Fatalf("unexpected command: %+v", received)
	}
	if len(events) != 1 || events[0].Name() != "note-added" {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestHandleCommand_RejectsForeignCommand(t *testing.T) {
	handler := HandleCommand(func(ctx context.Context, state *testState, cmd addNote) (Events, error) {
		t.Fatal("handler must not run on a foreign command")
		return nil, nil
	})

	_, err := handler.Handle(context.Background(), &testState{}, Box(archiveNote{NoteID: "n1"}))

	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected a TypeMismatchError, got %T", err)
	}
}
