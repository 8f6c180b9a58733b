// Package typemap provides maps keyed by Go type identity, so unrelated types
// can share one container without a closed enumeration of kinds.
package typemap

import (
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a Go type. Keys of the same type compare equal.
type Key struct {
	typ reflect.Type
}

// KeyOf returns the key for T.
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeFor[T]()}
}

// Type returns the reflected type behind the key.
func (k Key) Type() reflect.Type {
	return k.typ
}

// Name is the qualified type name, e.g. "demo.Position".
func (k Key) Name() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// ID is a 64-bit identifier stable across processes for the same type
// path, suitable for logs and wire payloads.
func (k Key) ID() uint64 {
	if k.typ == nil {
		return 0
	}
	return xxhash.Sum64String(k.typ.PkgPath() + "." + k.typ.String())
}

func (k Key) String() string {
	return k.Name()
}

// Map associates at most one V with each type key.
// The zero value is not usable; create one with New.
type Map[V any] struct {
	entries map[Key]V
}

func New[V any]() *Map[V] {
	return &Map[V]{entries: make(map[Key]V)}
}

// Get returns the value stored under k.
func (m *Map[V]) Get(k Key) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Contains reports whether k has a value.
func (m *Map[V]) Contains(k Key) bool {
	_, ok := m.entries[k]
	return ok
}

// Insert stores v under k and returns the value it replaced, if any.
func (m *Map[V]) Insert(k Key, v V) (V, bool) {
	prev, ok := m.entries[k]
	m.entries[k] = v
	return prev, ok
}

// InsertAbsent stores v under k only if k is empty.
func (m *Map[V]) InsertAbsent(k Key, v V) bool {
	if _, ok := m.entries[k]; ok {
		return false
	}
	m.entries[k] = v
	return true
}

// Take removes and returns the value under k.
func (m *Map[V]) Take(k Key) (V, bool) {
	v, ok := m.entries[k]
	if ok {
		delete(m.entries, k)
	}
	return v, ok
}

func (m *Map[V]) Len() int {
	return len(m.entries)
}

// Keys returns all keys ordered by name, then by package path for types whose
// names collide.
func (m *Map[V]) Keys() []Key {
	keys := make([]Key, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

func (k Key) less(other Key) bool {
	if a, b := k.Name(), other.Name(); a != b {
		return a < b
	}
	return k.pkgPath() < other.pkgPath()
}

func (k Key) pkgPath() string {
	if k.typ == nil {
		return ""
	}
	return k.typ.PkgPath()
}

// Each visits entries in key-name order until fn returns false.
func (m *Map[V]) Each(fn func(Key, V) bool) {
	for _, k := range m.Keys() {
		if !fn(k, m.entries[k]) {
			return
		}
	}
}
