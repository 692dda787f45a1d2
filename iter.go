package dispatch

import (
	"context"
	"errors"
	"io"
)

// Iterator lazily yields values, typically the stored events replayed by an
// EventWriter backend. Iteration order is the order the producer yields;
// consume immediately and make no assumptions about reuse afterwards.
type Iterator[T any] struct {
	next    func(ctx context.Context) (T, error)
	current T
	err     error
	done    bool
}

// NewIteratorFunc creates an Iterator from a producer function. The producer
// returns io.EOF when exhausted; any other error ends iteration and is
// surfaced through Err.
func NewIteratorFunc[T any](next func(ctx context.Context) (T, error)) *Iterator[T] {
	return &Iterator[T]{next: next}
}

// NewSliceIterator creates an Iterator over a fixed slice.
func NewSliceIterator[T any](items []T) *Iterator[T] {
	index := 0
	return NewIteratorFunc(func(ctx context.Context) (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if index >= len(items) {
			return zero, io.EOF
		}
		item := items[index]
		index++
		return item, nil
	})
}

// Next advances the iterator. Returns false once exhausted or on error.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	value, err := it.next(ctx)
	if err != nil {
		it.done = true
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		return false
	}
	it.current = value
	return true
}

// Value returns the current item.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err returns the error that ended iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// All consumes the iterator and returns the remaining items.
func (it *Iterator[T]) All(ctx context.Context) ([]T, error) {
	var results []T
	for it.Next(ctx) {
		results = append(results, it.Value())
	}
	return results, it.Err()
}
