// Package file provides an EventWriter that stores one JSON file per event.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/terraskye/dispatch"
)

var _ dispatch.EventWriter = (*Writer)(nil)

// storedEvent is the on-disk representation of a written event.
type storedEvent struct {
	Seq       uint64          `json:"seq"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	WrittenAt time.Time       `json:"written_at"`
}

// Writer appends events to a directory, one file per event, named by a
// global sequence number so lexical order is write order.
type Writer struct {
	dir string

	mu  sync.Mutex
	seq uint64
}

// New creates the directory if needed and resumes the sequence from the
// highest-numbered event file already present. Entries that are not event
// files are ignored.
func New(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create event directory %q: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read event directory %q: %w", dir, err)
	}

	var seq uint64
	for _, entry := range entries {
		if n, ok := parseSeq(entry); ok && n > seq {
			seq = n
		}
	}

	return &Writer{dir: dir, seq: seq}, nil
}

// parseSeq extracts the sequence prefix of an event file name. Directories
// and foreign files yield false.
func parseSeq(entry os.DirEntry) (uint64, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
		return 0, false
	}
	prefix, _, ok := strings.Cut(entry.Name(), "-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Write implements dispatch.EventWriter.
func (w *Writer) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	stored := storedEvent{
		Seq:       w.seq,
		Name:      event.Name(),
		Data:      event.Data(),
		WrittenAt: time.Now(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode event %q: %w", event.Name(), err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%010d-%s.json", w.seq, event.Name()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write event %q: %w", event.Name(), err)
	}

	return nil
}

// Load replays the stored events in write order.
func (w *Writer) Load(ctx context.Context) (*dispatch.Iterator[dispatch.SerializedEvent], error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read event directory %q: %w", w.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := parseSeq(entry); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	index := 0
	return dispatch.NewIteratorFunc(func(ctx context.Context) (dispatch.SerializedEvent, error) {
		if err := ctx.Err(); err != nil {
			return dispatch.SerializedEvent{}, err
		}
		if index >= len(names) {
			return dispatch.SerializedEvent{}, io.EOF
		}

		data, err := os.ReadFile(filepath.Join(w.dir, names[index]))
		if err != nil {
			return dispatch.SerializedEvent{}, fmt.Errorf("read event file %q: %w", names[index], err)
		}
		index++

		var stored storedEvent
		if err := json.Unmarshal(data, &stored); err != nil {
			return dispatch.SerializedEvent{}, fmt.Errorf("decode event file %q: %w", names[index-1], err)
		}

		return dispatch.NewSerializedEvent(stored.Name, stored.Data), nil
	}), nil
}
