package terrain

import (
	"fmt"
	"math"

	"github.com/dgraph-io/ristretto/v2"
)

// CachedField memoizes another height field by the exact bits of (x, z).
// Cached values are identical to the wrapped field's.
type CachedField struct {
	field HeightField
	cache *ristretto.Cache[uint64, float32]
}

// NewCachedField wraps field with a cache holding up to entries samples.
func NewCachedField(field HeightField, entries int64) (*CachedField, error) {
	if entries <= 0 {
		return nil, fmt.Errorf("height cache: entries must be positive, got %d", entries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, float32]{
		NumCounters: entries * 10,
		MaxCost:     entries,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("height cache: %w", err)
	}
	return &CachedField{field: field, cache: cache}, nil
}

// HeightAt implements HeightField.
func (c *CachedField) HeightAt(x, z float32) float32 {
	key := sampleKey(x, z)
	if h, ok := c.cache.Get(key); ok {
		return h
	}
	h := c.field.HeightAt(x, z)
	c.cache.Set(key, h, 1)
	return h
}

// Stats returns cache hits and misses since creation.
func (c *CachedField) Stats() (hits, misses uint64) {
	return c.cache.Metrics.Hits(), c.cache.Metrics.Misses()
}

// Wait blocks until pending writes are applied.
func (c *CachedField) Wait() {
	c.cache.Wait()
}

// Close releases the cache. The field must not be used afterwards.
func (c *CachedField) Close() {
	c.cache.Close()
}

func sampleKey(x, z float32) uint64 {
	return uint64(math.Float32bits(x))<<32 | uint64(math.Float32bits(z))
}
