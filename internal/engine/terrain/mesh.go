package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Mesher defaults.
const (
	DefaultSubdivisions              = 20
	DefaultUVTiling          float32 = 10
	DefaultColliderThickness float32 = 0.5
)

var (
	// ErrInvalidOrigin is returned when a region's world origin is not finite.
	// No geometry is produced.
	ErrInvalidOrigin = errors.New("invalid region origin")
	// ErrInvalidCollider is returned alongside a valid mesh when the ground
	// slab extents are not finite and positive.
	ErrInvalidCollider = errors.New("invalid collider extents")
)

// Mesher builds region ground meshes by sampling a height field on a regular
// grid. A Mesher is immutable after construction and safe for concurrent use.
type Mesher struct {
	Field             HeightField
	Layout            region.Layout
	Subdivisions      int
	UVTiling          float32
	ColliderThickness float32
	SmoothNormals     bool
}

// NewMesher returns a mesher with default grid settings.
func NewMesher(field HeightField) *Mesher {
	return &Mesher{
		Field:             field,
		Layout:            region.DefaultLayout,
		Subdivisions:      DefaultSubdivisions,
		UVTiling:          DefaultUVTiling,
		ColliderThickness: DefaultColliderThickness,
	}
}

// Build creates the ground mesh and collision slab for a region.
//
// The grid has (N+1)² vertices placed at local (i*Edge/N, h, j*Edge/N), where h
// is sampled at the matching world coordinate. Adjacent regions sample the
// same world coordinates along their shared edge, so edge vertices agree.
//
// On ErrInvalidOrigin both results are nil. On ErrInvalidCollider the mesh is
// returned and the collider is nil.
func (m *Mesher) Build(key region.Key) (*Mesh, *Collider, error) {
	edge := m.Layout.Edge
	origin := m.Layout.Origin(key)
	far := origin.Add(wmath.Vec3{X: edge, Z: edge})
	if !origin.IsFinite() || !far.IsFinite() || !(edge > 0) {
		return nil, nil, fmt.Errorf("region %v origin %v: %w", key, origin, ErrInvalidOrigin)
	}

	n := m.Subdivisions
	if n <= 0 {
		n = DefaultSubdivisions
	}
	step := edge / float32(n)
	stride := n + 1

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, stride*stride),
		Indices:  make([]uint32, 0, n*n*6),
		Bounds:   emptyBounds(),
	}

	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			lx := float32(i) * step
			lz := float32(j) * step
			wx := origin.X + lx
			wz := origin.Z + lz
			h := m.Field.HeightAt(wx, wz)

			normal := [3]float32{0, 1, 0}
			if m.SmoothNormals {
				normal = m.normalAt(wx, wz, step)
			}

			v := Vertex{
				Position: [3]float32{lx, h, lz},
				Normal:   normal,
				TexCoord: [2]float32{
					float32(i) / float32(n) * m.UVTiling,
					float32(j) / float32(n) * m.UVTiling,
				},
			}
			mesh.Vertices = append(mesh.Vertices, v)
			updateBounds(&mesh.Bounds, v.Position)
		}
	}

	// Two triangles per quad, counter-clockwise seen from +Y.
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			i0 := uint32(j*stride + i)
			i1 := i0 + 1
			i2 := i0 + uint32(stride)
			i3 := i2 + 1
			mesh.Indices = append(mesh.Indices,
				i0, i2, i1,
				i1, i2, i3,
			)
		}
	}

	half := edge / 2
	collider := &Collider{
		Center:      wmath.Vec3{X: half, Z: half},
		HalfExtents: wmath.Vec3{X: half, Y: m.ColliderThickness, Z: half},
	}
	if !validExtents(collider.HalfExtents) {
		return mesh, nil, fmt.Errorf("region %v half extents %v: %w", key, collider.HalfExtents, ErrInvalidCollider)
	}
	return mesh, collider, nil
}

// normalAt estimates the surface normal with central differences on the field.
func (m *Mesher) normalAt(x, z, eps float32) [3]float32 {
	dx := m.Field.HeightAt(x+eps, z) - m.Field.HeightAt(x-eps, z)
	dz := m.Field.HeightAt(x, z+eps) - m.Field.HeightAt(x, z-eps)
	n := wmath.Vec3{X: -dx, Y: 2 * eps, Z: -dz}.Normalize()
	return n.Array()
}

func validExtents(v wmath.Vec3) bool {
	return v.IsFinite() && v.X > 0 && v.Y > 0 && v.Z > 0
}
