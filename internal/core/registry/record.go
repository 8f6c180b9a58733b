package registry

import (
	"github.com/zeusync/ecs/internal/core/genindex"
	"github.com/zeusync/ecs/internal/core/typemap"
)

// Record maps each component type an entity carries to that component's
// handle in the type's store. A type appears at most once.
type Record struct {
	handles *typemap.Map[genindex.Index]
}

func NewRecord() Record {
	return Record{handles: typemap.New[genindex.Index]()}
}

// SetHandle records h for T unless T is already present.
func SetHandle[T any](rec Record, h genindex.Index) bool {
	return rec.set(typemap.KeyOf[T](), h)
}

// TakeHandle removes and returns the handle recorded for T.
func TakeHandle[T any](rec Record) (genindex.Index, bool) {
	return rec.take(typemap.KeyOf[T]())
}

// HandleOf returns the handle recorded for T without removing it.
func HandleOf[T any](rec Record) (genindex.Index, bool) {
	return rec.lookup(typemap.KeyOf[T]())
}

// Keys lists the component types present, ordered by name.
func (rec Record) Keys() []typemap.Key {
	return rec.handles.Keys()
}

func (rec Record) Len() int {
	return rec.handles.Len()
}

func (rec Record) set(k typemap.Key, h genindex.Index) bool {
	return rec.handles.InsertAbsent(k, h)
}

func (rec Record) take(k typemap.Key) (genindex.Index, bool) {
	return rec.handles.Take(k)
}

func (rec Record) lookup(k typemap.Key) (genindex.Index, bool) {
	return rec.handles.Get(k)
}

func (rec Record) has(k typemap.Key) bool {
	return rec.handles.Contains(k)
}
