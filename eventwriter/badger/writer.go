// Package badger provides a BadgerDB-backed EventWriter.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/terraskye/dispatch"
)

var _ dispatch.EventWriter = (*Writer)(nil)

const keyPrefix = "event/"

// Options configures the BadgerDB writer.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// storedEvent is the value format under each sequence key.
type storedEvent struct {
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	WrittenAt time.Time       `json:"written_at"`
}

// Writer appends events to a BadgerDB instance under monotonically
// increasing sequence keys.
type Writer struct {
	db  *badger.DB
	seq *badger.Sequence
}

// New opens the database and claims the event sequence.
func New(opts Options) (*Writer, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(opts.Logger)
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	seq, err := db.GetSequence([]byte("seq/events"), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("claim event sequence: %w", err)
	}

	return &Writer{db: db, seq: seq}, nil
}

// Write implements dispatch.EventWriter.
func (w *Writer) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seq, err := w.seq.Next()
	if err != nil {
		return fmt.Errorf("next event sequence: %w", err)
	}

	stored := storedEvent{
		Name:      event.Name(),
		Data:      event.Data(),
		WrittenAt: time.Now(),
	}

	value, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode event %q: %w", event.Name(), err)
	}

	key := fmt.Appendf(nil, "%s%020d", keyPrefix, seq)
	err = w.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("write event %q: %w", event.Name(), err)
	}

	return nil
}

// Load replays the stored events in write order.
func (w *Writer) Load(ctx context.Context) (*dispatch.Iterator[dispatch.SerializedEvent], error) {
	var events []dispatch.SerializedEvent

	err := w.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(value []byte) error {
				var stored storedEvent
				if err := json.Unmarshal(value, &stored); err != nil {
					return fmt.Errorf("decode event %q: %w", it.Item().Key(), err)
				}
				events = append(events, dispatch.NewSerializedEvent(stored.Name, stored.Data))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	index := 0
	return dispatch.NewIteratorFunc(func(ctx context.Context) (dispatch.SerializedEvent, error) {
		if err := ctx.Err(); err != nil {
			return dispatch.SerializedEvent{}, err
		}
		if index >= len(events) {
			return dispatch.SerializedEvent{}, io.EOF
		}
		event := events[index]
		index++
		return event, nil
	}), nil
}

// Close releases the sequence and closes the database. Idempotent.
func (w *Writer) Close() error {
	if w.db.IsClosed() {
		return nil
	}
	if err := w.seq.Release(); err != nil {
		w.db.Close()
		return fmt.Errorf("release event sequence: %w", err)
	}
	return w.db.Close()
}
