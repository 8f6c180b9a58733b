package registry

import (
	"github.com/zeusync/ecs/internal/core/events/bus"
	"github.com/zeusync/ecs/internal/core/genindex"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/typemap"
)

// Topic is the bus topic registry changes are published to.
const Topic = "registry"

// Event types published on Topic.
const (
	EventEntityCreated    = "entity.created"
	EventEntityDeleted    = "entity.deleted"
	EventComponentAdded   = "component.added"
	EventComponentRemoved = "component.removed"
)

// Change is the payload of every registry event.
type Change struct {
	Kind        string         `json:"kind"`
	Entity      Entity         `json:"entity"`
	Component   string         `json:"component,omitempty"`
	ComponentID uint64         `json:"component_id,omitempty"`
	Handle      genindex.Index `json:"handle"`
}

func (r *Registry) publishEntity(kind string, e Entity) {
	if r.events == nil {
		return
	}
	r.publish(Change{Kind: kind, Entity: e, Handle: e.Index()})
}

func (r *Registry) publishComponent(kind string, e Entity, k typemap.Key, h genindex.Index) {
	if r.events == nil {
		return
	}
	r.publish(Change{Kind: kind, Entity: e, Component: k.Name(), ComponentID: k.ID(), Handle: h})
}

func (r *Registry) publish(c Change) {
	if err := r.events.PublishToTopic(Topic, bus.NewEvent(c.Kind, r.name, c)); err != nil {
		r.logger.Warn("registry event handler failed",
			log.String("event", c.Kind),
			log.Stringer("entity", c.Entity),
			log.Error(err),
		)
	}
}
