package registry

import (
	"iter"

	"github.com/zeusync/ecs/internal/core/typemap"
	"github.com/zeusync/ecs/pkg/sequence"
)

// Entities iterates live entities in slot order.
func (r *Registry) Entities() *sequence.Iterator[Entity] {
	return sequence.FromSeq[Entity](func(yield func(Entity) bool) {
		for idx := range r.entities.All() {
			if !yield(Entity(idx)) {
				return
			}
		}
	})
}

// Query iterates every live entity carrying a T, with a pointer to it.
// Entities must not be created or deleted while iterating.
func Query[T any](r *Registry) iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		vec, ok := Store[T](r.stores)
		if !ok {
			return
		}
		k := typemap.KeyOf[T]()
		for idx, rec := range r.entities.All() {
			h, ok := rec.lookup(k)
			if !ok {
				continue
			}
			p, ok := vec.Ref(h)
			if !ok {
				continue
			}
			if !yield(Entity(idx), p) {
				return
			}
		}
	}
}

// ComponentStats describes one component store.
type ComponentStats struct {
	Name  string `yaml:"name" json:"name"`
	ID    uint64 `yaml:"id" json:"id"`
	Live  int    `yaml:"live" json:"live"`
	Slots int    `yaml:"slots" json:"slots"`
}

type Stats struct {
	Strategy    string           `yaml:"strategy" json:"strategy"`
	Cascade     bool             `yaml:"cascade" json:"cascade"`
	Entities    int              `yaml:"entities" json:"entities"`
	EntitySlots int              `yaml:"entity_slots" json:"entity_slots"`
	Components  []ComponentStats `yaml:"components" json:"components"`
}

// Stats reports live and allocated counts for entities and each store.
func (r *Registry) Stats() Stats {
	s := Stats{
		Strategy:    r.entities.Strategy().String(),
		Cascade:     r.cascade,
		Entities:    r.entities.Len(),
		EntitySlots: r.entities.Slots(),
	}
	for _, k := range r.stores.Keys() {
		live, slots := r.stores.Count(k)
		s.Components = append(s.Components, ComponentStats{
			Name:  k.Name(),
			ID:    k.ID(),
			Live:  live,
			Slots: slots,
		})
	}
	return s
}
