package sequence

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterator(t *testing.T) {
	evens := From([]int{1, 2, 3, 4, 5, 6}).Filter(func(v int) bool { return v%2 == 0 })

	assert.Equal(t, []int{2, 4, 6}, evens.Collect())
	assert.Equal(t, 3, evens.Count())
	assert.Equal(t, []int{2, 4}, evens.Take(2).Collect())
	assert.Empty(t, evens.Take(0).Collect())
	assert.True(t, evens.Any(func(v int) bool { return v > 5 }))
	assert.False(t, evens.Any(func(v int) bool { return v > 6 }))

	first, ok := evens.First()
	assert.True(t, ok)
	assert.Equal(t, 2, first)

	_, ok = From[int](nil).First()
	assert.False(t, ok)
}

func TestMapAndSeq(t *testing.T) {
	doubled := Map(FromSeq(slices.Values([]int{1, 2, 3})), func(v int) int { return v * 2 })

	var got []int
	for v := range doubled.Seq() {
		if v > 4 {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 4}, got)
}
