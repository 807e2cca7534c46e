// Package region partitions the infinite ground plane into square regions
// and derives the deterministic seeds that drive per-region content.
package region

import (
	"fmt"
	"math"
	"sort"

	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Edge is the side length of a region in world units.
const Edge float32 = 1000

// DefaultLayout is the layout used by the package-level helpers.
var DefaultLayout = Layout{Edge: Edge}

// Key identifies a region by integer lattice coordinates.
// Keys are comparable and can be used directly as map keys.
type Key struct {
	X, Z int32
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("(%d,%d)", k.X, k.Z)
}

// DistanceSquared returns the squared lattice distance between two keys.
func (k Key) DistanceSquared(other Key) int64 {
	dx := int64(k.X) - int64(other.X)
	dz := int64(k.Z) - int64(other.Z)
	return dx*dx + dz*dz
}

// Layout maps world space onto the region lattice.
// A region covers [origin, origin+Edge) on both X and Z.
type Layout struct {
	Edge float32
}

// KeyAt returns the key of the region containing the world position.
func (l Layout) KeyAt(pos wmath.Vec3) Key {
	return Key{
		X: floorDiv(pos.X, l.Edge),
		Z: floorDiv(pos.Z, l.Edge),
	}
}

// Origin returns the world position of the region's minimum corner (Y = 0).
func (l Layout) Origin(k Key) wmath.Vec3 {
	return wmath.Vec3{X: float32(k.X) * l.Edge, Y: 0, Z: float32(k.Z) * l.Edge}
}

// Center returns the world position of the region's centre (Y = 0).
func (l Layout) Center(k Key) wmath.Vec3 {
	half := l.Edge / 2
	return l.Origin(k).Add(wmath.Vec3{X: half, Z: half})
}

// FromWorldPosition returns the key for pos in the default layout.
func FromWorldPosition(pos wmath.Vec3) Key {
	return DefaultLayout.KeyAt(pos)
}

// Origin returns the world origin of k in the default layout.
func Origin(k Key) wmath.Vec3 {
	return DefaultLayout.Origin(k)
}

// KeysWithin returns every key whose squared lattice distance to center is at
// most radius², ordered nearest first (ties broken by X then Z).
func KeysWithin(center Key, radius int32) []Key {
	if radius < 0 {
		return nil
	}
	r2 := int64(radius) * int64(radius)
	keys := make([]Key, 0, int(3.2*float64(r2))+1)
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if int64(dx)*int64(dx)+int64(dz)*int64(dz) > r2 {
				continue
			}
			keys = append(keys, Key{X: center.X + dx, Z: center.Z + dz})
		}
	}
	SortByDistance(keys, center)
	return keys
}

// SortByDistance orders keys nearest to center first.
func SortByDistance(keys []Key, center Key) {
	sort.Slice(keys, func(i, j int) bool {
		di, dj := keys[i].DistanceSquared(center), keys[j].DistanceSquared(center)
		if di != dj {
			return di < dj
		}
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Z < keys[j].Z
	})
}

// floorDiv floors v/edge into an int32, saturating at the int32 range so that
// far-out or non-finite positions still map to exactly one key.
func floorDiv(v, edge float32) int32 {
	q := math.Floor(float64(v) / float64(edge))
	switch {
	case math.IsNaN(q):
		return 0
	case q >= math.MaxInt32:
		return math.MaxInt32
	case q <= math.MinInt32:
		return math.MinInt32
	}
	return int32(q)
}
