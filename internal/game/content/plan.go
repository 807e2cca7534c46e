package content

import (
	"math"

	"github.com/Faultbox/skybound/internal/engine/scene"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Plan computes the content of region key. It reads only the key, the height
// field and the rules, so calling it twice yields identical plans.
//
// Each category draws from its own stream. A candidate consumes all of its
// draws before the exclusion check, so dropping one never shifts the ones
// after it.
func (p *Populator) Plan(key region.Key) Plan {
	plan := Plan{
		Key:        key,
		Settlement: region.ShouldSpawnSettlement(key),
		Patrol:     region.ShouldSpawnPatrol(key),
	}

	pc := planContext{
		origin: p.layout.Origin(key),
		edge:   p.layout.Edge,
		field:  p.field,
	}
	pc.center = pc.edge / 2

	p.planVegetation(&plan, &pc)
	p.planRocks(&plan, &pc)
	p.planObstacles(&plan, &pc)
	if plan.Settlement {
		planSettlement(&plan, &pc)
	}
	if plan.Patrol {
		planPatrol(&plan, &pc)
	}
	return plan
}

type planContext struct {
	origin wmath.Vec3
	edge   float32
	center float32 // local X and Z of the region centre
	field  terrain.HeightField
}

// heightAt samples the field at a region-local position.
func (pc *planContext) heightAt(lx, lz float32) float32 {
	return pc.field.HeightAt(pc.origin.X+lx, pc.origin.Z+lz)
}

// excluded reports whether a local (x, z) lies strictly inside radius of the
// region centre of a settlement region.
func (pc *planContext) excluded(plan *Plan, lx, lz, radius float32) bool {
	if !plan.Settlement || radius <= 0 {
		return false
	}
	dx, dz := lx-pc.center, lz-pc.center
	return dx*dx+dz*dz < radius*radius
}

func (p *Populator) planVegetation(plan *Plan, pc *planContext) {
	rng := region.Stream(plan.Key, region.CategoryVegetation)
	n := rng.IntRange(p.rules.TreesMin, p.rules.TreesMax)
	for range n {
		x := rng.Range(0, pc.edge)
		z := rng.Range(0, pc.edge)
		model := TreeModels[rng.Index(len(TreeModels))]
		scale := rng.Range(treeScaleMin, treeScaleMax)
		yaw := rng.Angle()

		if pc.excluded(plan, x, z, p.rules.VegetationExclusion) {
			plan.skipped[KindVegetation]++
			continue
		}
		plan.Placements = append(plan.Placements, Placement{
			Kind:     KindVegetation,
			Position: wmath.Vec3{X: x, Y: pc.heightAt(x, z) + treeClearance, Z: z},
			Rotation: wmath.QuatFromYaw(yaw),
			Scale:    scale,
			Model:    model,
			Detail:   true,
		})
	}
}

func (p *Populator) planRocks(plan *Plan, pc *planContext) {
	rng := region.Stream(plan.Key, region.CategoryRocks)
	n := rng.IntRange(p.rules.RocksMin, p.rules.RocksMax)
	for range n {
		x := rng.Range(0, pc.edge)
		z := rng.Range(0, pc.edge)
		scale := rng.Range(rockScaleMin, rockScaleMax)
		yaw := rng.Angle()

		if pc.excluded(plan, x, z, p.rules.RockExclusion) {
			plan.skipped[KindRock]++
			continue
		}
		// The collider is in node space, so the node scale applies to it.
		plan.Placements = append(plan.Placements, Placement{
			Kind:     KindRock,
			Position: wmath.Vec3{X: x, Y: pc.heightAt(x, z) + rockHalfHeight*scale, Z: z},
			Rotation: wmath.QuatFromYaw(yaw),
			Scale:    scale,
			Collider: scene.Box(wmath.Vec3{X: rockHalfWidth, Y: rockHalfHeight, Z: rockHalfWidth}),
		})
	}
}

func (p *Populator) planObstacles(plan *Plan, pc *planContext) {
	rng := region.Stream(plan.Key, region.CategoryObstacles)
	for range p.rules.Obstacles {
		x := rng.Range(0, pc.edge)
		y := rng.Range(obstacleAltMin, obstacleAltMax)
		z := rng.Range(0, pc.edge)
		rot := wmath.QuatFromEuler(rng.Angle(), rng.Angle(), rng.Angle())

		var scale float32
		if rng.Float32() > largeObstacleRoll {
			scale = rng.Range(largeObstacleMin, largeObstacleMax)
		} else {
			scale = rng.Range(smallObstacleMin, smallObstacleMax)
		}
		model := MeteorModels[rng.Index(len(MeteorModels))]

		if pc.excluded(plan, x, z, p.rules.ObstacleExclusion) {
			plan.skipped[KindObstacle]++
			continue
		}
		plan.Placements = append(plan.Placements, Placement{
			Kind:     KindObstacle,
			Position: wmath.Vec3{X: x, Y: y, Z: z},
			Rotation: rot,
			Scale:    scale,
			Model:    model,
			Collider: scene.Sphere(obstacleRadius),
		})
	}
}

// planSettlement places a ring of walled houses with roofs around the region
// centre plus a central tower. Each piece sits on the ground at its footprint.
func planSettlement(plan *Plan, pc *planContext) {
	for i := range settlementBuildings {
		angle := float32(i) / settlementBuildings * tau
		x := pc.center + float32(math.Cos(float64(angle)))*settlementRing
		z := pc.center + float32(math.Sin(float64(angle)))*settlementRing
		rot := wmath.QuatFromYaw(angle + math.Pi)
		h := pc.heightAt(x, z)

		plan.Placements = append(plan.Placements,
			Placement{
				Kind:     KindBuilding,
				Position: wmath.Vec3{X: x, Y: h - wallSink, Z: z},
				Rotation: rot,
				Scale:    buildingScale,
				Model:    WallModel,
				Material: SettlementTexture,
				Collider: scene.Box(wmath.Vec3{X: 3, Y: 5, Z: 3}),
			},
			Placement{
				Kind:     KindBuilding,
				Position: wmath.Vec3{X: x, Y: h + roofHeight, Z: z},
				Rotation: rot,
				Scale:    buildingScale,
				Model:    RoofModel,
				Material: SettlementTexture,
			},
		)
	}

	h := pc.heightAt(pc.center, pc.center)
	plan.Placements = append(plan.Placements, Placement{
		Kind:     KindBuilding,
		Position: wmath.Vec3{X: pc.center, Y: h - wallSink, Z: pc.center},
		Rotation: wmath.QuatIdentity(),
		Scale:    towerScale,
		Model:    WallModel,
		Material: SettlementTexture,
		Collider: scene.Box(wmath.Vec3{X: 10, Y: 20, Z: 10}),
	})
}

// planPatrol seeds one hostile drone above the region centre.
func planPatrol(plan *Plan, pc *planContext) {
	h := pc.heightAt(pc.center, pc.center)
	plan.Placements = append(plan.Placements, Placement{
		Kind:     KindPatrolSpawn,
		Position: wmath.Vec3{X: pc.center, Y: h + patrolAltitude, Z: pc.center},
		Rotation: wmath.QuatFromYaw(math.Pi),
		Scale:    droneScale,
		Model:    DroneModel,
	})
}
