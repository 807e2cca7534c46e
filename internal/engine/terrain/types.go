// Package terrain builds region ground meshes from a procedural height field.
package terrain

import (
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Vertex represents a terrain mesh vertex.
type Vertex struct {
	Position [3]float32 // local to the region origin
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds the ground mesh of one region, ready for upload by a renderer.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of the mesh in local space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Collider is the static slab that keeps physics bodies from falling through
// a region. Ground contact for gameplay uses the height field directly.
type Collider struct {
	Center      wmath.Vec3 // local to the region origin
	HalfExtents wmath.Vec3
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
