package registry

import (
	"github.com/zeusync/ecs/internal/core/genindex"
	"github.com/zeusync/ecs/internal/core/typemap"
)

// store is the type-erased face of a typedStore, enough to release and count
// components without knowing their Go type.
type store interface {
	remove(genindex.Index) bool
	contains(genindex.Index) bool
	live() int
	slots() int
}

type typedStore[T any] struct {
	vec *genindex.Vector[T]
}

func (s *typedStore[T]) remove(h genindex.Index) bool   { return s.vec.Remove(h) }
func (s *typedStore[T]) contains(h genindex.Index) bool { return s.vec.Contains(h) }
func (s *typedStore[T]) live() int                      { return s.vec.Len() }
func (s *typedStore[T]) slots() int                     { return s.vec.Slots() }

// Stores holds one component vector per Go type that has ever been inserted.
// Stores are created lazily and never dropped.
type Stores struct {
	byType   *typemap.Map[store]
	strategy genindex.Strategy
	capacity int
}

// NewStores creates an empty set of stores. New vectors use strategy and
// reserve capacity slots up front.
func NewStores(strategy genindex.Strategy, capacity int) *Stores {
	return &Stores{
		byType:   typemap.New[store](),
		strategy: strategy,
		capacity: capacity,
	}
}

// Register creates the store for T if it does not exist yet and returns it.
func Register[T any](s *Stores) *genindex.Vector[T] {
	if vec, ok := Store[T](s); ok {
		return vec
	}
	vec := genindex.NewVector[T](s.strategy)
	vec.Reserve(s.capacity)
	s.byType.Insert(typemap.KeyOf[T](), &typedStore[T]{vec: vec})
	return vec
}

// Store returns T's vector if T has been registered.
func Store[T any](s *Stores) (*genindex.Vector[T], bool) {
	k := typemap.KeyOf[T]()
	erased, ok := s.byType.Get(k)
	if !ok {
		return nil, false
	}
	typed, ok := erased.(*typedStore[T])
	if !ok {
		panic(corruptf("store under %s holds %T", k, erased))
	}
	return typed.vec, true
}

// Insert adds value to T's store, registering it first if needed.
func Insert[T any](s *Stores, value T) genindex.Index {
	return Register[T](s).Insert(value)
}

// Get returns a copy of the T behind h.
func Get[T any](s *Stores, h genindex.Index) (T, bool) {
	if vec, ok := Store[T](s); ok {
		return vec.Get(h)
	}
	var zero T
	return zero, false
}

// Ref returns a pointer to the T behind h.
func Ref[T any](s *Stores, h genindex.Index) (*T, bool) {
	if vec, ok := Store[T](s); ok {
		return vec.Ref(h)
	}
	return nil, false
}

// Remove releases h from T's store.
func Remove[T any](s *Stores, h genindex.Index) bool {
	if vec, ok := Store[T](s); ok {
		return vec.Remove(h)
	}
	return false
}

// RemoveKey releases h from the store registered under k.
func (s *Stores) RemoveKey(k typemap.Key, h genindex.Index) bool {
	if st, ok := s.byType.Get(k); ok {
		return st.remove(h)
	}
	return false
}

// ContainsKey reports whether h is live in the store registered under k.
func (s *Stores) ContainsKey(k typemap.Key, h genindex.Index) bool {
	if st, ok := s.byType.Get(k); ok {
		return st.contains(h)
	}
	return false
}

// Registered reports whether a store exists for k.
func (s *Stores) Registered(k typemap.Key) bool {
	return s.byType.Contains(k)
}

// Keys lists registered component types by name.
func (s *Stores) Keys() []typemap.Key {
	return s.byType.Keys()
}

// Count returns the live and total slot counts of the store under k.
func (s *Stores) Count(k typemap.Key) (live, slots int) {
	if st, ok := s.byType.Get(k); ok {
		return st.live(), st.slots()
	}
	return 0, 0
}
