// Package genindex implements generational indices: handles into slot storage
// that detect reuse of the slot they point at.
package genindex

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks a broken internal invariant. It is only ever raised through
// a panic, never returned for caller misuse.
var ErrCorrupt = errors.New("genindex: internal invariant violated")

// Index is a handle to a slot at a particular generation.
// It is a plain value; copying it never affects the slot it names.
type Index struct {
	Slot       uint32 `json:"slot"`
	Generation uint32 `json:"generation"`
}

// Pack folds the index into a single uint64 (generation in the high half).
func (i Index) Pack() uint64 {
	return uint64(i.Generation)<<32 | uint64(i.Slot)
}

// Unpack is the inverse of Index.Pack.
func Unpack(v uint64) Index {
	return Index{Slot: uint32(v), Generation: uint32(v >> 32)}
}

func (i Index) String() string {
	return fmt.Sprintf("%d#%d", i.Slot, i.Generation)
}
