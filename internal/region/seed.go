package region

import (
	"math"
	"math/rand/v2"
)

// Category selects an independent random stream for one kind of content.
// Streams for different categories of the same key never share state, so
// changing how many draws one category consumes leaves the others intact.
type Category uint8

const (
	CategoryVegetation Category = iota
	CategoryRocks
	CategoryObstacles
	CategorySettlement
	CategoryPatrol
)

var categoryNames = [...]string{
	CategoryVegetation: "vegetation",
	CategoryRocks:      "rocks",
	CategoryObstacles:  "obstacles",
	CategorySettlement: "settlement",
	CategoryPatrol:     "patrol",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Per-category salts mixed into the key seed.
var categorySalts = [...]uint64{
	CategoryVegetation: 0x9e3779b97f4a7c15,
	CategoryRocks:      0xc2b2ae3d27d4eb4f,
	CategoryObstacles:  0x165667b19e3779f9,
	CategorySettlement: 0xd6e8feb86659fd93,
	CategoryPatrol:     0xa0761d6478bd642f,
}

// Seed returns the content seed of a region:
//
//	uint64(int64(x)*73856093) ^ uint64(int64(z)*19349663)
//
// The multiplication is done in 64 bits so it never wraps for int32 keys.
func Seed(k Key) uint64 {
	return uint64(int64(k.X)*73856093) ^ uint64(int64(k.Z)*19349663)
}

// SeedFor returns the seed of one content category of a region.
func SeedFor(k Key, c Category) uint64 {
	return mix64(Seed(k) ^ c.salt())
}

func (c Category) salt() uint64 {
	if int(c) < len(categorySalts) {
		return categorySalts[c]
	}
	return uint64(c) * 0xbf58476d1ce4e5b9
}

// pack maps a key onto 64 bits without collisions.
func pack(k Key) uint64 {
	return uint64(uint32(k.X))<<32 | uint64(uint32(k.Z))
}

// mix64 is the splitmix64 finaliser.
func mix64(v uint64) uint64 {
	v ^= v >> 30
	v *= 0xbf58476d1ce4e5b9
	v ^= v >> 27
	v *= 0x94d049bb133111eb
	v ^= v >> 31
	return v
}

// Rand is a deterministic random stream. Every draw is computed from the raw
// PCG output with a fixed formula, so a given seed yields the same values on
// every platform and Go release.
//
// A Rand is not safe for concurrent use.
type Rand struct {
	src *rand.PCG
}

// NewRand returns a stream seeded with seed.
func NewRand(seed uint64) *Rand {
	return &Rand{src: rand.NewPCG(seed, mix64(seed^0x5851f42d4c957f2d))}
}

// Stream returns the random stream for category c of region k.
//
// Seed alone can collide for nearby keys (the XOR of two linear terms is not
// injective), so the second PCG word is derived from the packed key. Distinct
// keys therefore always get distinct generator states.
func Stream(k Key, c Category) *Rand {
	return &Rand{src: rand.NewPCG(SeedFor(k, c), mix64(pack(k)^c.salt()))}
}

// Uint64 returns the next raw 64-bit value.
func (r *Rand) Uint64() uint64 {
	return r.src.Uint64()
}

// Float32 returns a value in [0, 1).
func (r *Rand) Float32() float32 {
	return float32(r.src.Uint64()>>40) / (1 << 24)
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi float32) float32 {
	v := lo + (hi-lo)*r.Float32()
	if v >= hi {
		v = math.Nextafter32(hi, lo)
	}
	return v
}

// Angle returns an angle in [0, 2π).
func (r *Rand) Angle() float32 {
	return r.Range(0, 2*math.Pi)
}

// IntRange returns an integer in [lo, hi], both ends inclusive.
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(r.src.Uint64()%uint64(hi-lo+1))
}

// Index returns an integer in [0, n). It returns 0 when n <= 0.
func (r *Rand) Index(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.src.Uint64() % uint64(n))
}
