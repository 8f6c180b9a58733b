package genindex

import "math"

// Strategy selects how the allocator picks a dead slot for reuse.
type Strategy uint8

const (
	// StrategyFreeList reuses the most recently released slot in O(1).
	StrategyFreeList Strategy = iota
	// StrategyLinearScan reuses the lowest dead slot, scanning from zero.
	StrategyLinearScan
)

func (s Strategy) String() string {
	switch s {
	case StrategyFreeList:
		return "free_list"
	case StrategyLinearScan:
		return "linear_scan"
	default:
		return "unknown"
	}
}

// entry is a slot state: live or dead, stamped with its current generation.
type entry struct {
	generation uint32
	live       bool
}

// Allocator issues and invalidates indices. It knows nothing about values.
// It is not safe for concurrent use.
type Allocator struct {
	entries  []entry
	free     []uint32 // dead, reusable slots; only maintained for StrategyFreeList
	live     int
	strategy Strategy
}

// NewAllocator creates an empty allocator using the given reuse strategy.
func NewAllocator(strategy Strategy) *Allocator {
	return &Allocator{strategy: strategy}
}

// Strategy reports the reuse strategy.
func (a *Allocator) Strategy() Strategy {
	return a.strategy
}

// Reserve grows internal capacity for at least n more slots.
func (a *Allocator) Reserve(n int) {
	if n <= 0 {
		return
	}
	if free := cap(a.entries) - len(a.entries); free < n {
		grown := make([]entry, len(a.entries), len(a.entries)+n)
		copy(grown, a.entries)
		a.entries = grown
	}
}

// Allocate returns a fresh live index. A dead slot is reused with its
// generation bumped by one; otherwise a new slot at generation 0 is appended.
func (a *Allocator) Allocate() Index {
	if slot, ok := a.reusable(); ok {
		e := &a.entries[slot]
		if e.live {
			panic(corruptf("slot %d offered for reuse while live", slot))
		}
		e.generation++
		e.live = true
		a.live++
		return Index{Slot: slot, Generation: e.generation}
	}

	if uint64(len(a.entries)) >= math.MaxUint32 {
		panic(corruptf("slot space exhausted"))
	}
	a.entries = append(a.entries, entry{live: true})
	a.live++
	return Index{Slot: uint32(len(a.entries) - 1)}
}

func (a *Allocator) reusable() (uint32, bool) {
	switch a.strategy {
	case StrategyLinearScan:
		for i := range a.entries {
			e := a.entries[i]
			if !e.live && e.generation < math.MaxUint32 {
				return uint32(i), true
			}
		}
		return 0, false
	default:
		n := len(a.free)
		if n == 0 {
			return 0, false
		}
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		return slot, true
	}
}

// Release marks the slot dead if idx is the live generation of its slot.
// Out-of-range, already dead and stale indices all return false.
func (a *Allocator) Release(idx Index) bool {
	if int(idx.Slot) >= len(a.entries) {
		return false
	}
	e := &a.entries[idx.Slot]
	if !e.live || e.generation != idx.Generation {
		return false
	}
	e.live = false
	a.live--
	// A slot whose generation cannot grow any further is retired for good.
	if a.strategy == StrategyFreeList && e.generation < math.MaxUint32 {
		a.free = append(a.free, idx.Slot)
	}
	return true
}

// IsLive reports whether idx names the current live generation of its slot.
func (a *Allocator) IsLive(idx Index) bool {
	if int(idx.Slot) >= len(a.entries) {
		return false
	}
	e := a.entries[idx.Slot]
	return e.live && e.generation == idx.Generation
}

// Len is the number of slots ever created, live or dead.
func (a *Allocator) Len() int {
	return len(a.entries)
}

// Live is the number of currently live slots.
func (a *Allocator) Live() int {
	return a.live
}

// Each calls fn for every live index in slot order until fn returns false.
func (a *Allocator) Each(fn func(Index) bool) {
	for i, e := range a.entries {
		if !e.live {
			continue
		}
		if !fn(Index{Slot: uint32(i), Generation: e.generation}) {
			return
		}
	}
}
