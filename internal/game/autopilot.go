package game

import (
	"math"

	"github.com/Faultbox/skybound/internal/engine/terrain"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// DefaultWeavePeriod is the length of one full side-to-side weave, in seconds.
const DefaultWeavePeriod float32 = 20

// FlightPlan describes the scripted flight.
//
// Heading is measured in the XZ plane from +X towards +Z, so 0 flies east and
// 90 flies along +Z.
type FlightPlan struct {
	Start          wmath.Vec3
	Speed          float32 // metres per second along the heading
	Altitude       float32 // cruise height above sea level
	HeadingDeg     float32
	WeaveAmplitude float32 // lateral swing either side of the track, in metres
	WeavePeriod    float32 // seconds; <= 0 uses DefaultWeavePeriod
}

// Autopilot flies a straight or weaving track at constant speed and keeps the
// aircraft at least terrain.CrashMargin above the ground. It implements
// world.PositionSource.
type Autopilot struct {
	field terrain.HeightField
	plan  FlightPlan

	dir  wmath.Vec3 // unit vector along the heading
	side wmath.Vec3 // unit vector to the right of the heading

	pos         wmath.Vec3
	travelled   float32
	elapsed     float32
	corrections int
}

// NewAutopilot creates an autopilot over field, positioned at the start of the
// plan (lifted clear of the ground if needed).
func NewAutopilot(field terrain.HeightField, plan FlightPlan) *Autopilot {
	if !(plan.WeavePeriod > 0) {
		plan.WeavePeriod = DefaultWeavePeriod
	}
	rad := float64(plan.HeadingDeg) * math.Pi / 180
	dir := wmath.Vec3{X: float32(math.Cos(rad)), Z: float32(math.Sin(rad))}
	a := &Autopilot{
		field: field,
		plan:  plan,
		dir:   dir,
		side:  wmath.Vec3{X: -dir.Z, Z: dir.X},
	}
	a.place()
	return a
}

// Step advances the flight by dt seconds.
func (a *Autopilot) Step(dt float32) {
	if !(dt > 0) {
		return
	}
	a.elapsed += dt
	a.travelled += a.plan.Speed * dt
	a.place()
}

func (a *Autopilot) place() {
	pos := a.plan.Start.Add(a.dir.Scale(a.travelled))
	if a.plan.WeaveAmplitude != 0 {
		phase := 2 * math.Pi * float64(a.elapsed/a.plan.WeavePeriod)
		pos = pos.Add(a.side.Scale(a.plan.WeaveAmplitude * float32(math.Sin(phase))))
	}
	pos.Y = a.plan.Altitude
	if terrain.BelowGround(a.field, pos, terrain.CrashMargin) {
		pos.Y = terrain.GroundLevel(a.field, pos.X, pos.Z, terrain.CrashMargin)
		a.corrections++
	}
	a.pos = pos
}

// PlayerPosition returns the current aircraft position.
func (a *Autopilot) PlayerPosition() wmath.Vec3 { return a.pos }

// Heading returns the unit direction of travel.
func (a *Autopilot) Heading() wmath.Vec3 { return a.dir }

// Elapsed returns the simulated flight time in seconds.
func (a *Autopilot) Elapsed() float32 { return a.elapsed }

// Corrections returns how many times the aircraft was lifted to avoid the
// ground.
func (a *Autopilot) Corrections() int { return a.corrections }
