package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestOnEvent_SubscribesToDeclaredName(t *testing.T) {
	handler := OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
		return nil, nil
	})

	names := handler.EventNames()
	if len(names) != 1 || names[0] != "note-added" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestOnEvent_DecodesBeforeInvoking(t *testing.T) {
	var received noteAdded
	handler := OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
		received = event
		return NewCommands(archiveNote{NoteID: event.NoteID}), nil
	})

	serialized, err := SerializeEvent(noteAdded{NoteID: "n1", Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commands, err := handler.Handle(context.Background(), &testState{}, &serialized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.NoteID != "n1" {
		t.Fatalf("unexpected event: %+v", received)
	}
	if len(commands) != 1 || commands[0].Name() != "archive-note" {
		t.Fatalf("unexpected commands: %v", commands)
	}
}

func TestOnEvent_BadPayload(t *testing.T) {
	handler := OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
		t.Fatal("handler must not run on an undecodable event")
		return nil, nil
	})

	serialized := NewSerializedEvent("note-added", []byte("not json"))
	_, err := handler.Handle(context.Background(), &testState{}, &serialized)

	var deser *DeserializationError
	if !errors.As(err, &deser) {
		t.Fatalf("expected a DeserializationError, got %T", err)
	}
}

func TestNewEventHandlerFunc(t *testing.T) {
	handler := NewEventHandlerFunc([]string{"note-added", "note-archived"},
		func(ctx context.Context, state *testState, event *SerializedEvent) (Commands, error) {
			state.record("handle " + event.Name())
			return nil, nil
		})

	if !equalStrings(handler.EventNames(), []string{"note-added", "note-archived"}) {
		t.Fatalf("unexpected names: %v", handler.EventNames())
	}

	state := &testState{}
	serialized, _ := SerializeEvent(noteArchived{NoteID: "n1"})
	if _, err := handler.Handle(context.Background(), state, &serialized); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalStrings(state.steps(), []string{"handle note-archived"}) {
		t.Fatalf("unexpected steps: %v", state.steps())
	}
}

func TestEventGroup_RoutesToSubscribedMembers(t *testing.T) {
	state := &testState{}
	group := NewEventGroup(
		OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("added-1")
			return NewCommands(archiveNote{NoteID: event.NoteID}), nil
		}),
		OnEvent(func(ctx context.Context, state *testState, event noteArchived) (Commands, error) {
			state.record("archived")
			return nil, nil
		}),
		OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("added-2")
			return NewCommands(addNote{NoteID: "next"}), nil
		}),
	)

	if !equalStrings(group.EventNames(), []string{"note-added", "note-archived"}) {
		t.Fatalf("unexpected names: %v", group.EventNames())
	}

	serialized, _ := SerializeEvent(noteAdded{NoteID: "n1"})
	commands, err := group.Handle(context.Background(), state, &serialized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the two note-added members ran, in construction order, and their
	// commands are concatenated in that same order.
	if !equalStrings(state.steps(), []string{"added-1", "added-2"}) {
		t.Fatalf("unexpected steps: %v", state.steps())
	}
	if len(commands) != 2 || commands[0].Name() != "archive-note" || commands[1].Name() != "add-note" {
		t.Fatalf("unexpected commands: %v", commands)
	}
}

func TestEventGroup_MemberErrorStopsGroup(t *testing.T) {
	boom := errors.New("boom")
	state := &testState{}
	group := NewEventGroup(
		OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			return nil, boom
		}),
		OnEvent(func(ctx context.Context, state *testState, event noteAdded) (Commands, error) {
			state.record("must not run")
			return nil, nil
		}),
	)

	serialized, _ := SerializeEvent(noteAdded{NoteID: "n1"})
	_, err := group.Handle(context.Background(), state, &serialized)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the member error, got %v", err)
	}
	if len(state.steps()) != 0 {
		t.Fatalf("later members must not run: %v", state.steps())
	}
}
