package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFormula(t *testing.T) {
	assert.Equal(t, uint64(0), Seed(Key{0, 0}))
	assert.Equal(t, uint64(73856093), Seed(Key{1, 0}))
	assert.Equal(t, uint64(19349663), Seed(Key{0, 1}))
	assert.Equal(t, uint64(73856093^19349663), Seed(Key{1, 1}))

	neg := int64(-2) * 73856093
	assert.Equal(t, uint64(neg), Seed(Key{-2, 0}))
}

func TestStreamsDistinctPerKey(t *testing.T) {
	seen := make(map[uint64]Key)
	for x := int32(-30); x <= 30; x++ {
		for z := int32(-30); z <= 30; z++ {
			k := Key{x, z}
			v := Stream(k, CategoryVegetation).Uint64()
			prev, dup := seen[v]
			require.False(t, dup, "keys %v and %v share a stream", prev, k)
			seen[v] = k
		}
	}
}

func TestSeedForIndependentCategories(t *testing.T) {
	k := Key{4, -7}
	seeds := map[uint64]Category{}
	for c := CategoryVegetation; c <= CategoryPatrol; c++ {
		s := SeedFor(k, c)
		assert.Equal(t, s, SeedFor(k, c), "category %v not stable", c)
		_, dup := seeds[s]
		assert.False(t, dup, "category %v collides", c)
		seeds[s] = c
	}
}

func TestStreamDeterministic(t *testing.T) {
	a := Stream(Key{12, 3}, CategoryRocks)
	b := Stream(Key{12, 3}, CategoryRocks)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c := Stream(Key{12, 3}, CategoryVegetation)
	d := Stream(Key{12, 3}, CategoryRocks)
	same := 0
	for i := 0; i < 16; i++ {
		if c.Uint64() == d.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 16)
}

func TestRandRanges(t *testing.T) {
	r := NewRand(1)
	for i := 0; i < 2000; i++ {
		f := r.Float32()
		require.GreaterOrEqual(t, f, float32(0))
		require.Less(t, f, float32(1))

		v := r.Range(3, 6)
		require.GreaterOrEqual(t, v, float32(3))
		require.Less(t, v, float32(6))

		n := r.IntRange(5, 10)
		require.GreaterOrEqual(t, n, 5)
		require.LessOrEqual(t, n, 10)

		idx := r.Index(3)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 3)
	}

	assert.Equal(t, 7, r.IntRange(7, 7))
	assert.Equal(t, 0, r.Index(0))
}

func TestIntRangeCoversBounds(t *testing.T) {
	r := NewRand(99)
	hit := map[int]bool{}
	for i := 0; i < 500; i++ {
		hit[r.IntRange(2, 4)] = true
	}
	assert.Equal(t, map[int]bool{2: true, 3: true, 4: true}, hit)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "vegetation", CategoryVegetation.String())
	assert.Equal(t, "patrol", CategoryPatrol.String())
	assert.Equal(t, "unknown", Category(200).String())
}
