package terrain

import (
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// CrashMargin is the clearance below which a flying body counts as touching
// the ground.
const CrashMargin float32 = 5

// GroundLevel returns the terrain height at (x, z) raised by margin.
func GroundLevel(field HeightField, x, z, margin float32) float32 {
	return field.HeightAt(x, z) + margin
}

// BelowGround reports whether pos is under the ground level at its (x, z).
func BelowGround(field HeightField, pos wmath.Vec3, margin float32) bool {
	return pos.Y < GroundLevel(field, pos.X, pos.Z, margin)
}
