// Package game wires the world streaming stack together and runs the headless
// simulation loop.
package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skybound/internal/assets"
	"github.com/Faultbox/skybound/internal/config"
	"github.com/Faultbox/skybound/internal/engine/lod"
	"github.com/Faultbox/skybound/internal/engine/scene"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	"github.com/Faultbox/skybound/internal/game/content"
	"github.com/Faultbox/skybound/internal/game/world"
	"github.com/Faultbox/skybound/internal/logger"
	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// Game is one simulation instance.
type Game struct {
	cfg *config.Config

	field  terrain.HeightField
	cache  *terrain.CachedField // nil when the height cache is disabled
	graph  *scene.Graph
	assets *assets.Manager
	world  *world.Manager
	lod    *lod.Scaler
	pilot  *Autopilot

	ticks   uint64
	lastLOD lod.Result
	log     *zap.Logger
}

// New builds the terrain, scene, asset, streaming and LOD stack described by
// cfg. Nothing is loaded until the first Step.
func New(cfg *config.Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("game")

	g := &Game{cfg: cfg, log: log}

	var field terrain.HeightField = terrain.NewNoiseField(terrain.TerrainSeed)
	if n := cfg.World.HeightCacheEntries; n > 0 {
		cache, err := terrain.NewCachedField(field, n)
		if err != nil {
			return nil, fmt.Errorf("failed to create height cache: %w", err)
		}
		g.cache = cache
		field = cache
	}
	g.field = field

	mesher := terrain.NewMesher(field)
	mesher.Layout = region.Layout{Edge: cfg.World.RegionEdge}
	mesher.Subdivisions = cfg.World.Subdivisions
	mesher.UVTiling = cfg.World.UVTiling
	mesher.ColliderThickness = cfg.World.ColliderThickness
	mesher.SmoothNormals = cfg.World.SmoothNormals

	g.graph = scene.NewGraph()
	g.assets = assets.NewManager(cfg.Assets.Roots...)

	populator := content.NewPopulator(field, mesher.Layout, content.DefaultRules(), g.graph, g.assets)

	var err error
	g.world, err = world.NewManager(world.Config{
		LoadRadius:   cfg.Streaming.LoadRadius,
		UnloadRadius: cfg.Streaming.UnloadRadius,
		Workers:      cfg.Streaming.MeshWorkers,
	}, g.graph, mesher, populator)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create region manager: %w", err)
	}
	g.world.SetGroundMaterial(g.assets.Load(world.GroundTexture))

	g.lod = lod.NewScaler(g.graph, cfg.LOD.HideDistance)

	sim := cfg.Simulation
	g.pilot = NewAutopilot(field, FlightPlan{
		Start:          wmath.Vec3{Y: sim.CruiseAltitude},
		Speed:          sim.CruiseSpeed,
		Altitude:       sim.CruiseAltitude,
		HeadingDeg:     sim.HeadingDeg,
		WeaveAmplitude: sim.WeaveAmplitude,
	})

	log.Info("simulation initialized",
		zap.Float32("region_edge", cfg.World.RegionEdge),
		zap.Int32("load_radius", cfg.Streaming.LoadRadius),
		zap.Int32("unload_radius", cfg.Streaming.UnloadRadius),
		zap.Bool("height_cache", g.cache != nil),
		zap.Strings("asset_roots", cfg.Assets.Roots),
	)
	return g, nil
}

// Step advances the simulation by one tick of dt seconds: the autopilot moves,
// regions stream around its new position and detail visibility is refreshed.
func (g *Game) Step(dt float32) {
	g.pilot.Step(dt)
	g.world.TickFrom(g.pilot)
	g.lastLOD = g.lod.Update(g.pilot.PlayerPosition())
	g.ticks++
}

// Run drives Step at the configured tick rate until ctx is cancelled or the
// configured duration elapses.
func (g *Game) Run(ctx context.Context) error {
	rate := g.cfg.Simulation.TickRate
	step := time.Second / time.Duration(rate)
	dt := float32(1) / float32(rate)

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if d := g.cfg.Simulation.Duration; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	g.log.Info("starting simulation loop",
		zap.Int("tick_rate", rate),
		zap.Duration("duration", g.cfg.Simulation.Duration),
	)

	// The first tick loads the initial neighbourhood before any time passes.
	g.Step(0)

	statsTimer := time.Now()
	tickCount := 0
	for {
		select {
		case <-ctx.Done():
			g.log.Info("simulation interrupted", zap.Uint64("ticks", g.ticks))
			return nil
		case <-deadline:
			g.logStats(tickCount)
			g.log.Info("simulation finished", zap.Uint64("ticks", g.ticks))
			return nil
		case <-ticker.C:
			g.Step(dt)
			tickCount++
		}

		if time.Since(statsTimer) >= time.Second {
			g.logStats(tickCount)
			tickCount = 0
			statsTimer = time.Now()
		}
	}
}

func (g *Game) logStats(ticks int) {
	ws := g.world.Stats()
	hits, misses := g.assets.Stats()
	fields := []zap.Field{
		zap.Int("tps", ticks),
		zap.Stringer("player_region", g.world.PlayerRegion()),
		zap.Float32("altitude", g.pilot.PlayerPosition().Y),
		zap.Int("regions", g.world.Count()),
		zap.Int("loads", ws.Loads),
		zap.Int("unloads", ws.Unloads),
		zap.Int("skipped", ws.Skipped),
		zap.Int("nodes", g.graph.Len()),
		zap.Int("detail_visible", g.lastLOD.Visible),
		zap.Int("detail_hidden", g.lastLOD.Hidden),
		zap.Int("asset_hits", hits),
		zap.Int("asset_misses", misses),
	}
	if g.cache != nil {
		ch, cm := g.cache.Stats()
		fields = append(fields, zap.Uint64("height_hits", ch), zap.Uint64("height_misses", cm))
	}
	g.log.Info("region stats", fields...)
}

// Close releases every region and stops background work.
func (g *Game) Close() {
	g.log.Info("closing simulation")

	if g.world != nil {
		g.world.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.cache != nil {
		g.cache.Close()
	}
}

// Ticks returns the number of steps taken.
func (g *Game) Ticks() uint64 { return g.ticks }

// World returns the region manager.
func (g *Game) World() *world.Manager { return g.world }

// Graph returns the scene graph.
func (g *Game) Graph() *scene.Graph { return g.graph }

// Pilot returns the autopilot.
func (g *Game) Pilot() *Autopilot { return g.pilot }

// Field returns the height field regions are built from.
func (g *Game) Field() terrain.HeightField { return g.field }

// LOD returns the result of the most recent detail pass.
func (g *Game) LOD() lod.Result { return g.lastLOD }
