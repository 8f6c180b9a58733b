package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/ecs/internal/config"
	"github.com/zeusync/ecs/internal/core/events/bus"
	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/registry"
	"github.com/zeusync/ecs/internal/inspect"
)

// App is everything the demo binary needs to run a world.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Bus       bus.EventBus
	Registry  *registry.Registry
	Inspector *inspect.Inspector // nil unless enabled
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideRegistry,
	ProvideInspector,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideRegistry(cfg *config.Config, logger *log.Logger, b bus.EventBus) (*registry.Registry, error) {
	strategy, ok := registry.ParseStrategy(cfg.Registry.Allocation)
	if !ok {
		return nil, fmt.Errorf("%w: registry.allocation %q", config.ErrInvalidConfig, cfg.Registry.Allocation)
	}
	return registry.New(
		registry.WithName("world"),
		registry.WithStrategy(strategy),
		registry.WithCascade(cfg.Registry.CascadeDelete),
		registry.WithCapacity(cfg.Registry.Capacity),
		registry.WithLogger(logger.With(log.String("component", "registry"))),
		registry.WithEventBus(b),
	), nil
}

func ProvideInspector(cfg *config.Config, b bus.EventBus, logger *log.Logger) (*inspect.Inspector, func(), error) {
	if !cfg.Inspector.Enabled {
		return nil, func() {}, nil
	}
	in, err := inspect.New(b, cfg.Inspector.Buffer, logger.With(log.String("component", "inspector")))
	if err != nil {
		return nil, nil, err
	}
	return in, func() { _ = in.Close() }, nil
}
