package registry

import (
	"github.com/zeusync/ecs/internal/core/events/bus"
	"github.com/zeusync/ecs/internal/core/genindex"
	"github.com/zeusync/ecs/internal/core/observability/log"
)

// Config is the YAML-facing registry configuration.
type Config struct {
	Allocation    string `yaml:"allocation"` // free_list | linear_scan
	CascadeDelete bool   `yaml:"cascade_delete"`
	Capacity      int    `yaml:"capacity"`
}

// ParseStrategy maps a config allocation name to a strategy.
func ParseStrategy(name string) (genindex.Strategy, bool) {
	switch name {
	case "", "free_list":
		return genindex.StrategyFreeList, true
	case "linear_scan":
		return genindex.StrategyLinearScan, true
	default:
		return genindex.StrategyFreeList, false
	}
}

type options struct {
	name     string
	strategy genindex.Strategy
	cascade  bool
	capacity int
	logger   log.Log
	events   bus.EventBus
}

func defaultOptions() options {
	return options{
		name:     "registry",
		strategy: genindex.StrategyFreeList,
		cascade:  true,
		logger:   log.Nop(),
	}
}

type Option func(*options)

// WithName sets the source name stamped on published events and log lines.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithStrategy selects the slot reuse strategy for entities and stores.
func WithStrategy(strategy genindex.Strategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithCascade controls whether DeleteEntity also releases the entity's
// components. Disabling it leaves them live in their stores, orphaned.
func WithCascade(enabled bool) Option {
	return func(o *options) {
		o.cascade = enabled
	}
}

// WithCapacity reserves slots for n entities and n components per type.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

func WithLogger(logger log.Log) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventBus publishes every structural change to topic Topic of b.
func WithEventBus(b bus.EventBus) Option {
	return func(o *options) {
		o.events = b
	}
}
