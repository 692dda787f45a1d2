package dispatch

import (
	"encoding/json"
	"fmt"
)

// Aggregate is a business entity identified by a unique id and mutated only
// through events. A concrete aggregate has three disjoint event categories:
// a creation event consumed by a constructor function, update events folded
// in through Apply, and a deletion event. An instance is fully
// reconstructable by folding its creation event followed by its update
// events in causal order; applying events out of order or before creation is
// undefined.
//
// The bus never replays aggregates. Rebuilding state from events is the job
// of the caller-supplied state or of the EventWriter.
type Aggregate interface {
	// Apply folds an update event into the aggregate state.
	Apply(event Event)
}

// ID tags a raw identifier value with the aggregate type it names, so that
// an ID[Todo, T] cannot be passed where an ID[User, T] is expected. The tag
// exists only at the type level: no runtime data is added, two ids are equal
// iff their raw values are, and an ID serializes transparently as its raw
// value.
type ID[A any, T comparable] struct {
	value T
}

// NewID wraps a raw identifier value.
func NewID[A any, T comparable](value T) ID[A, T] {
	return ID[A, T]{value: value}
}

// Value returns the wrapped raw value.
func (id ID[A, T]) Value() T {
	return id.value
}

func (id ID[A, T]) String() string {
	return fmt.Sprint(id.value)
}

func (id ID[A, T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *ID[A, T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &id.value)
}
