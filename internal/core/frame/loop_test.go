package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopStopsAfterMaxFrames(t *testing.T) {
	var ticks []Tick
	err := Loop{Interval: time.Millisecond, MaxFrames: 3}.Run(context.Background(), func(_ context.Context, tick Tick) error {
		ticks = append(ticks, tick)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, ticks, 3)

	for i, tick := range ticks {
		assert.Equal(t, uint64(i), tick.Frame)
		assert.Positive(t, tick.Delta)
	}
	assert.Greater(t, ticks[2].Elapsed, ticks[0].Elapsed)
}

func TestLoopStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Loop{Interval: time.Millisecond}.Run(context.Background(), func(_ context.Context, tick Tick) error {
		calls++
		if tick.Frame == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := Loop{Interval: time.Millisecond}.Run(ctx, func(_ context.Context, tick Tick) error {
		if tick.Frame == 4 {
			cancel()
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestLoopRejectsBadInterval(t *testing.T) {
	err := Loop{}.Run(context.Background(), func(context.Context, Tick) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
