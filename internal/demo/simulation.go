// Package demo is a small particle simulation driving the registry once per
// frame: entities spawn, move, expire and get their slots reused.
package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeusync/ecs/internal/core/frame"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/registry"
)

type Position struct {
	X, Y int
}

type Velocity struct {
	DX, DY int
}

// Lifetime counts the frames an entity has left.
type Lifetime struct {
	Frames int
}

type Options struct {
	SpawnPerFrame int
	MaxLive       int
	// Graveyard is how many despawned handles are kept and re-checked every
	// frame to make sure they no longer resolve.
	Graveyard int
}

func DefaultOptions() Options {
	return Options{SpawnPerFrame: 2, MaxLive: 6, Graveyard: 4}
}

type Simulation struct {
	reg    *registry.Registry
	opts   Options
	logger log.Log

	frames        uint64
	spawned       int
	despawned     int
	staleRejected int
	graveyard     []registry.Entity
}

func New(reg *registry.Registry, opts Options, logger log.Log) *Simulation {
	if logger == nil {
		logger = log.Nop()
	}
	return &Simulation{reg: reg, opts: opts, logger: logger}
}

// Step advances the simulation by one frame. It matches frame.Func.
func (s *Simulation) Step(_ context.Context, tick frame.Tick) error {
	s.age()
	s.move()
	s.spawn()
	if err := s.checkGraveyard(); err != nil {
		return err
	}
	s.frames++
	if tick.Frame%60 == 0 {
		s.logger.Debug("simulation step",
			log.Uint64("frame", tick.Frame),
			log.Int("live", s.reg.Len()),
			log.Duration("delta", tick.Delta),
		)
	}
	return nil
}

func (s *Simulation) age() {
	var expired []registry.Entity
	for e, l := range registry.Query[Lifetime](s.reg) {
		l.Frames--
		if l.Frames <= 0 {
			expired = append(expired, e)
		}
	}
	for _, e := range expired {
		if !s.reg.DeleteEntity(e) {
			continue
		}
		s.despawned++
		s.graveyard = append(s.graveyard, e)
		if over := len(s.graveyard) - s.opts.Graveyard; over > 0 {
			s.graveyard = s.graveyard[over:]
		}
	}
}

func (s *Simulation) move() {
	for e, v := range registry.Query[Velocity](s.reg) {
		if p, ok := registry.ComponentRef[Position](s.reg, e); ok {
			p.X += v.DX
			p.Y += v.DY
		}
	}
}

func (s *Simulation) spawn() {
	for i := 0; i < s.opts.SpawnPerFrame && s.reg.Len() < s.opts.MaxLive; i++ {
		n := s.spawned
		e := s.reg.CreateEntity()
		registry.AddComponent(s.reg, e, Position{X: n})
		registry.AddComponent(s.reg, e, Velocity{DX: 1, DY: n % 3})
		registry.AddComponent(s.reg, e, Lifetime{Frames: 2 + n%3})
		s.spawned++
	}
}

func (s *Simulation) checkGraveyard() error {
	for _, e := range s.graveyard {
		if s.reg.IsAlive(e) || registry.HasComponent[Position](s.reg, e) {
			return fmt.Errorf("despawned entity %s still resolves", e)
		}
		s.staleRejected++
	}
	return nil
}

// Checksum sums the coordinates of every live position.
func (s *Simulation) Checksum() int {
	sum := 0
	for _, p := range registry.Query[Position](s.reg) {
		sum += p.X + p.Y
	}
	return sum
}

// Summary renders a plain-text report of the run.
func (s *Simulation) Summary() string {
	stats := s.reg.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "frames: %d\n", s.frames)
	fmt.Fprintf(&b, "spawned: %d\n", s.spawned)
	fmt.Fprintf(&b, "despawned: %d\n", s.despawned)
	fmt.Fprintf(&b, "stale handles rejected: %d\n", s.staleRejected)
	fmt.Fprintf(&b, "strategy: %s\n", stats.Strategy)
	fmt.Fprintf(&b, "cascade: %t\n", stats.Cascade)
	fmt.Fprintf(&b, "entities: %d live / %d slots\n", stats.Entities, stats.EntitySlots)
	fmt.Fprintf(&b, "checksum: %d\n", s.Checksum())
	for _, c := range stats.Components {
		fmt.Fprintf(&b, "component %s: %d live / %d slots\n", c.Name, c.Live, c.Slots)
	}
	return b.String()
}
