// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/skybound/internal/engine/scene"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// BoxCorners returns the 8 world-space corners of a box with the given half
// extents, centred on offset and transformed by world.
func BoxCorners(half, offset wmath.Vec3, world wmath.Mat4) [8]wmath.Vec3 {
	var out [8]wmath.Vec3
	i := 0
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				local := offset.Add(wmath.Vec3{X: sx * half.X, Y: sy * half.Y, Z: sz * half.Z})
				out[i] = world.TransformVec3(local)
				i++
			}
		}
	}
	return out
}

// BBoxWireframe creates line vertices for a wireframe box given its 8 corners
// in BoxCorners order. Returns 24 vertices (12 edges × 2 endpoints).
func BBoxWireframe(c [8]wmath.Vec3) []wmath.Vec3 {
	// Corner index bits: 4 = +X, 2 = +Y, 1 = +Z.
	edges := [12][2]int{
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along X
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along Z
	}
	out := make([]wmath.Vec3, 0, 24)
	for _, e := range edges {
		out = append(out, c[e[0]], c[e[1]])
	}
	return out
}

// Footprint is an axis-aligned rectangle on the XZ plane.
type Footprint struct {
	Min, Max wmath.Vec2
}

// ColliderFootprint returns the XZ bounds of a collider placed by world. A
// sphere is bounded by its radius.
func ColliderFootprint(c scene.Collider, world wmath.Mat4) Footprint {
	half := c.HalfExtents
	if c.Shape == scene.ShapeSphere {
		half = wmath.Splat(c.Radius)
	}
	corners := BoxCorners(half, c.Offset, world)
	fp := Footprint{
		Min: wmath.Vec2{X: corners[0].X, Y: corners[0].Z},
		Max: wmath.Vec2{X: corners[0].X, Y: corners[0].Z},
	}
	for _, p := range corners[1:] {
		fp.Min.X = min(fp.Min.X, p.X)
		fp.Min.Y = min(fp.Min.Y, p.Z)
		fp.Max.X = max(fp.Max.X, p.X)
		fp.Max.Y = max(fp.Max.Y, p.Z)
	}
	return fp
}
