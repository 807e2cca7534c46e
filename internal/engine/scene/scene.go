// Package scene implements the in-process scene graph the world streamer
// spawns into: a strict tree of nodes stored in an arena and addressed by
// generation-checked handles.
//
// A Graph is owned by the simulation goroutine and is not safe for
// concurrent use.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/skybound/internal/assets"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// ErrUnknownParent is returned when spawning under a handle that is not live.
var ErrUnknownParent = errors.New("unknown parent node")

// Handle identifies a node. The zero Handle is never live.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d#%d)", h.index, h.gen)
}

// Tag marks nodes for systems that iterate a subset of the graph.
type Tag uint8

const (
	// TagDetail marks decorative nodes whose visibility the LOD pass controls.
	TagDetail Tag = 1 << iota
	// TagRegion marks region root nodes.
	TagRegion
	// TagGround marks region ground meshes.
	TagGround
)

// Transform is a node's placement relative to its parent.
type Transform struct {
	Translation wmath.Vec3
	Rotation    wmath.Quat
	Scale       float32 // uniform
}

// TransformAt returns an unrotated, unscaled transform at p.
func TransformAt(p wmath.Vec3) Transform {
	return Transform{Translation: p, Rotation: wmath.QuatIdentity(), Scale: 1}
}

// Matrix returns the local-to-parent matrix. A zero Scale is treated as 1.
func (t Transform) Matrix() wmath.Mat4 {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return wmath.Compose(t.Translation, t.Rotation, wmath.Splat(s))
}

// Renderable describes what a node draws. Either a model asset or a mesh.
type Renderable struct {
	Model    assets.Handle
	Material assets.Handle
	Mesh     *terrain.Mesh
	Tags     Tag
}

// Shape is a collider primitive.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	}
	return "unknown"
}

// Collider is a physics descriptor attached to a node. The scene graph only
// stores it; resolving contacts is the physics engine's job.
type Collider struct {
	Shape       Shape
	HalfExtents wmath.Vec3 // ShapeBox
	Radius      float32    // ShapeSphere
	Offset      wmath.Vec3 // local centre relative to the node
	Static      bool
}

// Box returns a static box collider.
func Box(halfExtents wmath.Vec3) *Collider {
	return &Collider{Shape: ShapeBox, HalfExtents: halfExtents, Static: true}
}

// Sphere returns a static sphere collider.
func Sphere(radius float32) *Collider {
	return &Collider{Shape: ShapeSphere, Radius: radius, Static: true}
}

type node struct {
	gen        uint32
	live       bool
	parent     Handle
	children   []Handle
	transform  Transform
	renderable Renderable
	collider   *Collider
	visible    bool
}

// Graph is an arena of scene nodes rooted at a single world node.
type Graph struct {
	nodes []node
	free  []uint32
	root  Handle
	live  int
}

// NewGraph creates a graph holding only the world root.
func NewGraph() *Graph {
	g := &Graph{}
	g.root = g.alloc(Handle{}, TransformAt(wmath.Vec3{}), Renderable{}, nil)
	return g
}

// Root returns the world root node.
func (g *Graph) Root() Handle { return g.root }

// Len returns the number of live nodes, including the root.
func (g *Graph) Len() int { return g.live }

// Alive reports whether h refers to a live node.
func (g *Graph) Alive(h Handle) bool {
	return g.get(h) != nil
}

// SpawnChild creates a visible node under parent.
func (g *Graph) SpawnChild(parent Handle, t Transform, r Renderable, c *Collider) (Handle, error) {
	p := g.get(parent)
	if p == nil {
		return Handle{}, fmt.Errorf("spawn under %v: %w", parent, ErrUnknownParent)
	}
	h := g.alloc(parent, t, r, c)
	// alloc may have grown the arena; fetch the parent again.
	p = g.get(parent)
	p.children = append(p.children, h)
	return h, nil
}

func (g *Graph) alloc(parent Handle, t Transform, r Renderable, c *Collider) Handle {
	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.nodes = append(g.nodes, node{})
		idx = uint32(len(g.nodes) - 1)
	}

	nd := &g.nodes[idx]
	gen := nd.gen + 1
	*nd = node{
		gen:        gen,
		live:       true,
		parent:     parent,
		transform:  t,
		renderable: r,
		collider:   c,
		visible:    true,
	}
	g.live++
	return Handle{index: idx, gen: gen}
}

func (g *Graph) get(h Handle) *node {
	if h.IsZero() || int(h.index) >= len(g.nodes) {
		return nil
	}
	nd := &g.nodes[h.index]
	if !nd.live || nd.gen != h.gen {
		return nil
	}
	return nd
}

// DespawnRecursive removes h and all of its descendants and returns how many
// nodes were removed. The world root cannot be removed; stale handles are
// ignored.
func (g *Graph) DespawnRecursive(h Handle) int {
	nd := g.get(h)
	if nd == nil || h == g.root {
		return 0
	}

	if p := g.get(nd.parent); p != nil {
		for i, c := range p.children {
			if c == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	removed := 0
	stack := []Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := g.get(cur)
		if n == nil {
			continue
		}
		stack = append(stack, n.children...)

		gen := n.gen
		*n = node{gen: gen}
		g.free = append(g.free, cur.index)
		g.live--
		removed++
	}
	return removed
}

// Parent returns the parent of h, or the zero Handle.
func (g *Graph) Parent(h Handle) Handle {
	if nd := g.get(h); nd != nil {
		return nd.parent
	}
	return Handle{}
}

// Children returns a copy of h's child list.
func (g *Graph) Children(h Handle) []Handle {
	nd := g.get(h)
	if nd == nil {
		return nil
	}
	return append([]Handle(nil), nd.children...)
}

// Transform returns the local transform of h.
func (g *Graph) Transform(h Handle) (Transform, bool) {
	nd := g.get(h)
	if nd == nil {
		return Transform{}, false
	}
	return nd.transform, true
}

// SetTransform replaces the local transform of h.
func (g *Graph) SetTransform(h Handle, t Transform) bool {
	nd := g.get(h)
	if nd == nil {
		return false
	}
	nd.transform = t
	return true
}

// Renderable returns what h draws.
func (g *Graph) Renderable(h Handle) (Renderable, bool) {
	nd := g.get(h)
	if nd == nil {
		return Renderable{}, false
	}
	return nd.renderable, true
}

// Collider returns the collider attached to h, if any.
func (g *Graph) Collider(h Handle) *Collider {
	if nd := g.get(h); nd != nil {
		return nd.collider
	}
	return nil
}

// WorldMatrix returns the local-to-world matrix of h.
func (g *Graph) WorldMatrix(h Handle) (wmath.Mat4, bool) {
	nd := g.get(h)
	if nd == nil {
		return wmath.Identity(), false
	}
	m := nd.transform.Matrix()
	for p := g.get(nd.parent); p != nil; p = g.get(p.parent) {
		m = p.transform.Matrix().Mul(m)
	}
	return m, true
}

// WorldPosition returns the world-space position of h.
func (g *Graph) WorldPosition(h Handle) (wmath.Vec3, bool) {
	m, ok := g.WorldMatrix(h)
	if !ok {
		return wmath.Vec3{}, false
	}
	return m.Translation(), true
}

// Visible reports whether h is drawn. A node is drawn only if its own flag
// is set; ancestors are not consulted.
func (g *Graph) Visible(h Handle) bool {
	nd := g.get(h)
	return nd != nil && nd.visible
}

// SetVisible sets the visibility of h and reports whether it changed.
func (g *Graph) SetVisible(h Handle, visible bool) bool {
	nd := g.get(h)
	if nd == nil || nd.visible == visible {
		return false
	}
	nd.visible = visible
	return true
}

// Each calls fn for every live node carrying tag, stopping early when fn
// returns false. The graph must not be modified during iteration.
func (g *Graph) Each(tag Tag, fn func(h Handle) bool) {
	for i := range g.nodes {
		nd := &g.nodes[i]
		if !nd.live || nd.renderable.Tags&tag == 0 {
			continue
		}
		if !fn(Handle{index: uint32(i), gen: nd.gen}) {
			return
		}
	}
}

// Colliders calls fn for every node with a collider, passing the node's
// world matrix. This is the hand-off point to a physics engine.
func (g *Graph) Colliders(fn func(h Handle, c Collider, world wmath.Mat4)) {
	for i := range g.nodes {
		nd := &g.nodes[i]
		if !nd.live || nd.collider == nil {
			continue
		}
		h := Handle{index: uint32(i), gen: nd.gen}
		m, _ := g.WorldMatrix(h)
		fn(h, *nd.collider, m)
	}
}
