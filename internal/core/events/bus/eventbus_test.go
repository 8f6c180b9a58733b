package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_, _ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	_, err := b.Subscribe("entity.created", func(e Event) error {
		got = e
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("entity.created", "tester", 123)))
	require.NotNil(t, got)
	assert.Equal(t, 123, got.Data())
	assert.Equal(t, "tester", got.Source())
	assert.False(t, got.Timestamp().IsZero())
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	require.NoError(t, b.CreateTopic("t1"))
	require.NoError(t, b.CreateTopic("t2"))
	count1, count2 := 0, 0
	_, _ = b.SubscribeTopic("t1", "ev", func(Event) error { count1++; return nil })
	_, _ = b.SubscribeTopic("t2", "ev", func(Event) error { count2++; return nil })

	require.NoError(t, b.PublishToTopic("t1", NewEvent("ev", "src", nil)))
	assert.Equal(t, 1, count1)
	assert.Equal(t, 0, count2)

	names := map[string]bool{}
	for _, ti := range b.Topics() {
		names[ti.Name] = true
	}
	assert.True(t, names["t1"])
	assert.True(t, names["t2"])
}

func TestWildcardSubscription(t *testing.T) {
	b := New()
	var types []string
	_, err := b.SubscribeTopic("registry", "", func(e Event) error {
		types = append(types, e.Type())
		return nil
	})
	require.NoError(t, err)

	_ = b.PublishToTopic("registry", NewEvent("entity.created", "r", nil))
	_ = b.PublishToTopic("registry", NewEvent("component.added", "r", nil))
	_ = b.PublishToTopic("other", NewEvent("entity.created", "r", nil))

	assert.Equal(t, []string{"entity.created", "component.added"}, types)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("e", func(Event) error { calls++; return nil })
	require.NoError(t, err)

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	assert.False(t, sub.IsActive())
	require.NoError(t, b.Unsubscribe(nil))

	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, 0, calls)
}

func TestNilHandlerRejected(t *testing.T) {
	_, err := New().Subscribe("e", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestFilters(t *testing.T) {
	b := New()
	calls := 0
	_, _ = b.Subscribe("e", func(Event) error { calls++; return nil })
	obs := &testObserver{}
	b.AddObserver(obs)

	reject := func(Event) bool { return false }
	require.NoError(t, b.PublishWithFilters(NewEvent("e", "s", nil), reject))
	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(1), b.Metrics().DroppedByFilters)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, Metrics{}, b.Metrics())

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))

	m := b.Metrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))
	assert.Equal(t, 1, obs.publishCount)
}
