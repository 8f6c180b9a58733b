package genindex

import (
	"fmt"
	"iter"
)

// Vector pairs an Allocator with a value slice addressed by slot.
// Every read goes through the allocator's liveness check, so a handle to a
// removed or reused slot never observes the cell's current contents.
type Vector[T any] struct {
	alloc  *Allocator
	values []T
}

// NewVector creates an empty vector using the given slot reuse strategy.
func NewVector[T any](strategy Strategy) *Vector[T] {
	return &Vector[T]{alloc: NewAllocator(strategy)}
}

// Reserve grows capacity for at least n more values.
func (v *Vector[T]) Reserve(n int) {
	v.alloc.Reserve(n)
	if n > 0 && cap(v.values)-len(v.values) < n {
		grown := make([]T, len(v.values), len(v.values)+n)
		copy(grown, v.values)
		v.values = grown
	}
}

// Insert stores value in a fresh slot and returns its handle.
func (v *Vector[T]) Insert(value T) Index {
	idx := v.alloc.Allocate()
	switch slot := int(idx.Slot); {
	case slot < len(v.values):
		v.values[slot] = value
	case slot == len(v.values):
		v.values = append(v.values, value)
	default:
		panic(corruptf("allocated slot %d beyond value storage of %d", slot, len(v.values)))
	}
	return idx
}

// Get returns a copy of the value behind idx.
func (v *Vector[T]) Get(idx Index) (T, bool) {
	if p, ok := v.Ref(idx); ok {
		return *p, true
	}
	var zero T
	return zero, false
}

// Ref returns a pointer to the value behind idx. The pointer is valid until
// the next Insert on this vector.
func (v *Vector[T]) Ref(idx Index) (*T, bool) {
	if !v.alloc.IsLive(idx) {
		return nil, false
	}
	return v.cell(idx.Slot), true
}

// Set replaces the value behind a live idx.
func (v *Vector[T]) Set(idx Index, value T) bool {
	p, ok := v.Ref(idx)
	if !ok {
		return false
	}
	*p = value
	return true
}

// Contains reports whether idx is live in this vector.
func (v *Vector[T]) Contains(idx Index) bool {
	return v.alloc.IsLive(idx)
}

// Remove releases idx. Other elements are never moved.
func (v *Vector[T]) Remove(idx Index) bool {
	if !v.alloc.Release(idx) {
		return false
	}
	var zero T
	*v.cell(idx.Slot) = zero
	return true
}

// Len is the number of live values.
func (v *Vector[T]) Len() int {
	return v.alloc.Live()
}

// Slots is the number of slots ever allocated.
func (v *Vector[T]) Slots() int {
	return v.alloc.Len()
}

// Strategy reports the slot reuse strategy.
func (v *Vector[T]) Strategy() Strategy {
	return v.alloc.Strategy()
}

// All iterates live values in slot order.
func (v *Vector[T]) All() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		v.alloc.Each(func(idx Index) bool {
			return yield(idx, v.cell(idx.Slot))
		})
	}
}

func (v *Vector[T]) cell(slot uint32) *T {
	if int(slot) >= len(v.values) {
		panic(corruptf("live slot %d has no value cell (len %d)", slot, len(v.values)))
	}
	return &v.values[slot]
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
