package terrain

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// HeightField maps a world (x, z) coordinate to a ground elevation.
// Implementations must be pure and safe for concurrent use.
type HeightField interface {
	HeightAt(x, z float32) float32
}

const (
	// TerrainSeed seeds the one global noise field shared by every region,
	// which keeps elevation continuous across region boundaries.
	TerrainSeed int64 = 42

	MinHeight float32 = -50
	MaxHeight float32 = 150
)

// noiseLayer is one octave of the terrain sum.
type noiseLayer struct {
	period    float64
	amplitude float64
	offset    float64 // domain offset so layers don't share lattice points
}

var noiseLayers = [...]noiseLayer{
	{period: 500, amplitude: 100},             // rolling hills
	{period: 100, amplitude: 15, offset: 100}, // ridges
	{period: 20, amplitude: 3, offset: 200},   // surface roughness
}

// NoiseField is a layered OpenSimplex height field.
type NoiseField struct {
	noise opensimplex.Noise
}

// NewNoiseField creates a height field seeded with seed.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{noise: opensimplex.New(seed)}
}

// HeightAt returns the elevation at world (x, z), clamped to
// [MinHeight, MaxHeight]. Non-finite input yields 0.
func (f *NoiseField) HeightAt(x, z float32) float32 {
	fx, fz := float64(x), float64(z)
	if math.IsNaN(fx) || math.IsInf(fx, 0) || math.IsNaN(fz) || math.IsInf(fz, 0) {
		return 0
	}

	var h float64
	for _, l := range noiseLayers {
		h += f.noise.Eval2(fx/l.period+l.offset, fz/l.period+l.offset) * l.amplitude
	}
	return clampf(float32(h), MinHeight, MaxHeight)
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
