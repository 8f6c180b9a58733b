// Package config loads the YAML configuration of the demo binary.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/ecs/internal/core/observability/log"
	"github.com/zeusync/ecs/internal/core/registry"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

type Config struct {
	Log       log.Config      `yaml:"log"`
	Registry  registry.Config `yaml:"registry"`
	Inspector Inspector       `yaml:"inspector"`
	Loop      Loop            `yaml:"loop"`
}

// Inspector configures the websocket change stream.
type Inspector struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	// Buffer is the per-client queue length; a client that falls further
	// behind loses messages.
	Buffer int `yaml:"buffer"`
}

type Loop struct {
	Tick   time.Duration `yaml:"tick"`
	Frames uint64        `yaml:"frames"`
}

func Default() *Config {
	return &Config{
		Log: log.Config{Level: "info", Encoding: "json"},
		Registry: registry.Config{
			Allocation:    "free_list",
			CascadeDelete: true,
			Capacity:      64,
		},
		Inspector: Inspector{Addr: "127.0.0.1:7070", Buffer: 256},
		Loop:      Loop{Tick: 16 * time.Millisecond, Frames: 0},
	}
}

// Load decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if _, ok := registry.ParseStrategy(c.Registry.Allocation); !ok {
		return fmt.Errorf("%w: registry.allocation %q", ErrInvalidConfig, c.Registry.Allocation)
	}
	if c.Registry.Capacity < 0 {
		return fmt.Errorf("%w: registry.capacity must not be negative", ErrInvalidConfig)
	}
	if c.Loop.Tick <= 0 {
		return fmt.Errorf("%w: loop.tick must be positive", ErrInvalidConfig)
	}
	if c.Inspector.Enabled {
		if c.Inspector.Addr == "" {
			return fmt.Errorf("%w: inspector.addr is required when enabled", ErrInvalidConfig)
		}
		if c.Inspector.Buffer <= 0 {
			return fmt.Errorf("%w: inspector.buffer must be positive", ErrInvalidConfig)
		}
	}
	return nil
}
