package registry

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/ecs/internal/core/typemap"
)

func TestQuery(t *testing.T) {
	r := New()
	a := r.CreateEntity()
	b := r.CreateEntity()
	c := r.CreateEntity()
	require.True(t, AddComponent(r, a, Point{X: 1}))
	require.True(t, AddComponent(r, b, Health{HP: 1}))
	require.True(t, AddComponent(r, c, Point{X: 3}))

	for _, p := range Query[Point](r) {
		p.X *= 10
	}

	var seen []Entity
	var xs []int
	for e, p := range Query[Point](r) {
		seen = append(seen, e)
		xs = append(xs, p.X)
	}
	assert.Equal(t, []Entity{a, c}, seen)
	assert.Equal(t, []int{10, 30}, xs)

	require.True(t, r.DeleteEntity(a))
	count := 0
	for range Query[Point](r) {
		count++
	}
	assert.Equal(t, 1, count)

	for range Query[Name](r) {
		t.Fatal("no store registered for Name")
	}
}

func TestEntities(t *testing.T) {
	r := New()
	a := r.CreateEntity()
	b := r.CreateEntity()
	c := r.CreateEntity()
	require.True(t, r.DeleteEntity(b))

	assert.Equal(t, []Entity{a, c}, r.Entities().Collect())
	assert.Equal(t, 2, r.Entities().Count())
}

func TestStats(t *testing.T) {
	r := New()
	a := r.CreateEntity()
	b := r.CreateEntity()
	require.True(t, AddComponent(r, a, Point{}))
	require.True(t, AddComponent(r, b, Point{}))
	require.True(t, AddComponent(r, b, Health{}))
	require.True(t, r.DeleteEntity(a))

	s := r.Stats()
	assert.Equal(t, "free_list", s.Strategy)
	assert.True(t, s.Cascade)
	assert.Equal(t, 1, s.Entities)
	assert.Equal(t, 2, s.EntitySlots)
	assert.Equal(t, []ComponentStats{
		{Name: "registry.Health", ID: typemap.KeyOf[Health]().ID(), Live: 1, Slots: 1},
		{Name: "registry.Point", ID: typemap.KeyOf[Point]().ID(), Live: 1, Slots: 2},
	}, s.Components)
}

func TestSynchronized(t *testing.T) {
	s := NewSynchronized(New())
	var g errgroup.Group
	var created atomic.Int64

	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				var e Entity
				if err := s.Update(func(r *Registry) error {
					e = r.CreateEntity()
					if !AddComponent(r, e, Health{HP: i}) {
						return errors.New("add failed")
					}
					return nil
				}); err != nil {
					return err
				}
				created.Add(1)

				if err := s.View(func(r *Registry) error {
					if _, ok := GetComponent[Health](r, e); !ok {
						return errors.New("component missing")
					}
					return nil
				}); err != nil {
					return err
				}

				if i%2 == 0 {
					if err := s.Update(func(r *Registry) error {
						if !r.DeleteEntity(e) {
							return errors.New("delete failed")
						}
						return nil
					}); err != nil {
						return err
					}
					created.Add(-1)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.NoError(t, s.View(func(r *Registry) error {
		assert.Equal(t, int(created.Load()), r.Len())
		live, _ := r.stores.Count(typemap.KeyOf[Health]())
		assert.Equal(t, r.Len(), live)
		return nil
	}))
}
