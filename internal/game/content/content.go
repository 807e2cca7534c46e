// Package content decides what populates a region and spawns it into the
// scene graph. Every decision is derived from the region key, so a region
// reloaded later gets exactly the same objects without anything being stored.
package content

import (
	"fmt"

	"github.com/Faultbox/skybound/internal/assets"
	"github.com/Faultbox/skybound/internal/engine/scene"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Kind classifies a placement.
type Kind uint8

const (
	KindVegetation Kind = iota
	KindRock
	KindObstacle
	KindBuilding
	KindPatrolSpawn
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindVegetation:
		return "vegetation"
	case KindRock:
		return "rock"
	case KindObstacle:
		return "obstacle"
	case KindBuilding:
		return "building"
	case KindPatrolSpawn:
		return "patrol"
	}
	return "unknown"
}

// Placement is one object to spawn, positioned relative to the region origin.
type Placement struct {
	Kind     Kind
	Position wmath.Vec3
	Rotation wmath.Quat
	Scale    float32
	Model    string // empty for primitives drawn from their collider
	Material string
	Collider *scene.Collider
	Detail   bool // subject to distance culling
}

// Plan is the full content of a region.
type Plan struct {
	Key        region.Key
	Settlement bool
	Patrol     bool
	Placements []Placement

	skipped [kindCount]int
}

// Count returns the number of placements of kind k.
func (p *Plan) Count(k Kind) int {
	n := 0
	for i := range p.Placements {
		if p.Placements[i].Kind == k {
			n++
		}
	}
	return n
}

// Skipped returns how many candidates of kind k fell inside the settlement
// exclusion zone.
func (p *Plan) Skipped(k Kind) int {
	if k >= kindCount {
		return 0
	}
	return p.skipped[k]
}

// Spawner is the part of the scene graph the populator needs.
type Spawner interface {
	SpawnChild(parent scene.Handle, t scene.Transform, r scene.Renderable, c *scene.Collider) (scene.Handle, error)
}

// Loader requests assets by path.
type Loader interface {
	Load(path string) assets.Handle
}

// Populator plans and spawns region content.
//
// Plan is pure and may run on any goroutine. Spawn and Populate write to the
// scene and belong to the simulation goroutine.
type Populator struct {
	field  terrain.HeightField
	layout region.Layout
	rules  Rules
	scene  Spawner
	loader Loader
}

// NewPopulator creates a populator. loader may be nil, in which case models
// are left unresolved.
func NewPopulator(field terrain.HeightField, layout region.Layout, rules Rules, s Spawner, loader Loader) *Populator {
	return &Populator{
		field:  field,
		layout: layout,
		rules:  rules,
		scene:  s,
		loader: loader,
	}
}

// Rules returns the placement rules in use.
func (p *Populator) Rules() Rules { return p.rules }

// Populate plans region key and spawns the result under parent.
func (p *Populator) Populate(key region.Key, parent scene.Handle) (int, error) {
	plan := p.Plan(key)
	return p.Spawn(&plan, parent)
}

// Spawn creates one child of parent per placement and returns how many were
// spawned. It stops at the first scene error.
func (p *Populator) Spawn(plan *Plan, parent scene.Handle) (int, error) {
	for i := range plan.Placements {
		pl := &plan.Placements[i]

		r := scene.Renderable{
			Model:    p.load(pl.Model),
			Material: p.load(pl.Material),
		}
		if pl.Detail {
			r.Tags |= scene.TagDetail
		}

		var c *scene.Collider
		if pl.Collider != nil {
			cc := *pl.Collider
			c = &cc
		}

		t := scene.Transform{Translation: pl.Position, Rotation: pl.Rotation, Scale: pl.Scale}
		if _, err := p.scene.SpawnChild(parent, t, r, c); err != nil {
			return i, fmt.Errorf("spawn %s %d in region %v: %w", pl.Kind, i, plan.Key, err)
		}
	}
	return len(plan.Placements), nil
}

func (p *Populator) load(path string) assets.Handle {
	if path == "" || p.loader == nil {
		return assets.Handle{}
	}
	return p.loader.Load(path)
}
