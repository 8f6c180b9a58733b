// Package registry stores entities and their typed components behind
// generation-checked handles.
//
// Component types are open: any Go type can be attached to an entity without
// being declared up front. Each type gets its own store the first time it is
// used. Operations taking a component type are generic functions rather than
// methods, since Go methods cannot have type parameters:
//
//	r := registry.New()
//	e := r.CreateEntity()
//	registry.AddComponent(r, e, Point{X: 1, Y: 2})
//	p, ok := registry.GetComponent[Point](r, e)
//
// A Registry is not safe for concurrent use; see Synchronized.
package registry

import (
	"github.com/zeusync/ecs/internal/core/events/bus"
	"github.com/zeusync/ecs/internal/core/genindex"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/typemap"
)

// Entity is a handle to an entity record.
type Entity genindex.Index

func (e Entity) Index() genindex.Index { return genindex.Index(e) }
func (e Entity) Pack() uint64          { return genindex.Index(e).Pack() }
func (e Entity) String() string        { return genindex.Index(e).String() }

type Registry struct {
	name     string
	entities *genindex.Vector[Record]
	stores   *Stores
	cascade  bool
	logger   log.Log
	events   bus.EventBus
}

func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	entities := genindex.NewVector[Record](o.strategy)
	entities.Reserve(o.capacity)
	return &Registry{
		name:     o.name,
		entities: entities,
		stores:   NewStores(o.strategy, o.capacity),
		cascade:  o.cascade,
		logger:   o.logger.With(log.String("registry", o.name)),
		events:   o.events,
	}
}

// Cascade reports whether DeleteEntity releases components.
func (r *Registry) Cascade() bool {
	return r.cascade
}

// CreateEntity allocates an entity with no components.
func (r *Registry) CreateEntity() Entity {
	e := Entity(r.entities.Insert(NewRecord()))
	r.logger.Debug("entity created", log.Stringer("entity", e))
	r.publishEntity(EventEntityCreated, e)
	return e
}

// DeleteEntity releases the entity. Its handle, and every copy of it, stops
// resolving. With cascade enabled (the default) the entity's components are
// released from their stores too.
//
// The entity is dead before any event is published, so handlers that call
// back into the registry observe it as gone.
func (r *Registry) DeleteEntity(e Entity) bool {
	rec, ok := r.entities.Ref(e.Index())
	if !ok {
		return false
	}

	var owned []ownedComponent
	if r.cascade {
		for _, k := range rec.Keys() {
			h, _ := rec.take(k)
			owned = append(owned, ownedComponent{key: k, handle: h})
		}
	} else if n := rec.Len(); n > 0 {
		r.logger.Debug("entity deleted with components left in stores",
			log.Stringer("entity", e),
			log.Int("orphaned", n),
		)
	}

	if !r.entities.Remove(e.Index()) {
		return false
	}

	for _, c := range owned {
		if !r.stores.RemoveKey(c.key, c.handle) {
			r.logger.Error("recorded component not live in its store",
				log.Stringer("entity", e),
				log.String("component", c.key.Name()),
				log.Stringer("handle", c.handle),
			)
			continue
		}
		r.publishComponent(EventComponentRemoved, e, c.key, c.handle)
	}
	r.logger.Debug("entity deleted", log.Stringer("entity", e))
	r.publishEntity(EventEntityDeleted, e)
	return true
}

type ownedComponent struct {
	key    typemap.Key
	handle genindex.Index
}

// IsAlive reports whether e still names a live entity.
func (r *Registry) IsAlive(e Entity) bool {
	return r.entities.Contains(e.Index())
}

// Len is the number of live entities.
func (r *Registry) Len() int {
	return r.entities.Len()
}

// Components lists the component types e carries, ordered by name.
func (r *Registry) Components(e Entity) []typemap.Key {
	rec, ok := r.entities.Ref(e.Index())
	if !ok {
		return nil
	}
	return rec.Keys()
}

// AddComponent attaches value to e. It fails if e is not alive or already
// has a T; an existing T is never overwritten.
func AddComponent[T any](r *Registry, e Entity, value T) bool {
	rec, ok := r.entities.Ref(e.Index())
	if !ok {
		return false
	}
	k := typemap.KeyOf[T]()
	if rec.has(k) {
		return false
	}

	h := Insert(r.stores, value)
	if !rec.set(k, h) {
		panic(corruptf("entity %s gained %s during insertion", e, k))
	}
	r.publishComponent(EventComponentAdded, e, k, h)
	return true
}

// GetComponent returns a copy of e's T.
func GetComponent[T any](r *Registry, e Entity) (T, bool) {
	if p, ok := ComponentRef[T](r, e); ok {
		return *p, true
	}
	var zero T
	return zero, false
}

// ComponentRef returns a pointer to e's T for in-place updates. The pointer
// is only valid until the next AddComponent of a T on r.
func ComponentRef[T any](r *Registry, e Entity) (*T, bool) {
	rec, ok := r.entities.Ref(e.Index())
	if !ok {
		return nil, false
	}
	h, ok := HandleOf[T](*rec)
	if !ok {
		return nil, false
	}
	return Ref[T](r.stores, h)
}

// HasComponent reports whether e carries a live T.
func HasComponent[T any](r *Registry, e Entity) bool {
	_, ok := ComponentRef[T](r, e)
	return ok
}

// RemoveComponent detaches and releases e's T.
//
// If e's record holds a handle its store no longer considers live, nothing is
// changed, the breach is logged and false is returned.
func RemoveComponent[T any](r *Registry, e Entity) bool {
	rec, ok := r.entities.Ref(e.Index())
	if !ok {
		return false
	}
	k := typemap.KeyOf[T]()
	h, ok := rec.take(k)
	if !ok {
		return false
	}
	if !Remove[T](r.stores, h) {
		rec.set(k, h)
		r.logger.Error("recorded component not live in its store",
			log.Stringer("entity", e),
			log.String("component", k.Name()),
			log.Stringer("handle", h),
		)
		return false
	}
	r.publishComponent(EventComponentRemoved, e, k, h)
	return true
}
