// Package frame drives application code once per frame.
package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/ecs/internal/core/observability/log"
)

var ErrInvalidInterval = errors.New("frame: interval must be positive")

// Tick describes the frame being processed.
type Tick struct {
	Frame   uint64        // zero-based frame number
	Delta   time.Duration // time since the previous frame
	Elapsed time.Duration // time since the loop started
}

// Func is called synchronously once per frame. Returning an error stops the loop.
type Func func(ctx context.Context, tick Tick) error

// Loop calls a Func on a fixed interval.
type Loop struct {
	Interval time.Duration
	// MaxFrames stops the loop after that many frames; zero runs until cancelled.
	MaxFrames uint64
	Logger    log.Log
}

// Run blocks until ctx is done, fn fails or MaxFrames frames have run.
// Cancellation and reaching MaxFrames both return nil.
func (l Loop) Run(ctx context.Context, fn Func) error {
	if l.Interval <= 0 {
		return ErrInvalidInterval
	}
	logger := l.Logger
	if logger == nil {
		logger = log.Nop()
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	var frame uint64
	for l.MaxFrames == 0 || frame < l.MaxFrames {
		select {
		case <-ctx.Done():
			logger.Debug("frame loop cancelled", log.Uint64("frames", frame))
			return nil
		case now := <-ticker.C:
			tick := Tick{Frame: frame, Delta: now.Sub(last), Elapsed: now.Sub(start)}
			if err := fn(ctx, tick); err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			last = now
			frame++
		}
	}
	logger.Debug("frame loop finished", log.Uint64("frames", frame))
	return nil
}
