// Package world streams regions in and out of the scene around the player.
package world

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/skybound/internal/assets"
	"github.com/Faultbox/skybound/internal/engine/scene"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	"github.com/Faultbox/skybound/internal/game/content"
	"github.com/Faultbox/skybound/internal/logger"
	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

// GroundTexture is the tiled texture of every region's ground mesh.
const GroundTexture = "textures/grass/grass_BaseColor.png"

// Streaming defaults.
const (
	DefaultLoadRadius   int32 = 8
	DefaultUnloadRadius int32 = 12
)

// ErrInvalidRadius is returned by Config.Validate.
var ErrInvalidRadius = errors.New("invalid streaming radius")

// State is the lifecycle state of one region.
type State uint8

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	}
	return "unknown"
}

// PositionSource reports where the player is.
type PositionSource interface {
	PlayerPosition() wmath.Vec3
}

// Observer is told about every region state transition.
type Observer func(key region.Key, from, to State)

// Config controls streaming.
type Config struct {
	LoadRadius   int32 // regions within this lattice distance are loaded
	UnloadRadius int32 // regions beyond this lattice distance are unloaded
	Workers      int   // parallel mesh/plan builders; <= 0 uses GOMAXPROCS
}

// DefaultConfig returns the default streaming configuration.
func DefaultConfig() Config {
	return Config{
		LoadRadius:   DefaultLoadRadius,
		UnloadRadius: DefaultUnloadRadius,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// Validate checks that both radii are positive and that loading happens
// strictly inside the unload radius.
func (c Config) Validate() error {
	if c.LoadRadius <= 0 || c.UnloadRadius <= 0 {
		return fmt.Errorf("%w: radii must be positive (load %d, unload %d)", ErrInvalidRadius, c.LoadRadius, c.UnloadRadius)
	}
	if c.LoadRadius >= c.UnloadRadius {
		return fmt.Errorf("%w: load radius %d must be less than unload radius %d", ErrInvalidRadius, c.LoadRadius, c.UnloadRadius)
	}
	return nil
}

// Stats counts streaming activity since the manager was created.
type Stats struct {
	Evaluations       int // ticks that re-ran the load/unload scan
	Loads             int
	Unloads           int
	Skipped           int // regions not materialized because of invalid geometry
	DegradedColliders int // regions loaded without a ground collider
}

// Manager owns the set of loaded regions. Regions are either absent or fully
// built; callers never see a partially populated region.
//
// A Manager belongs to the simulation goroutine. Only mesh and plan building
// fan out to worker goroutines, and they finish before Tick returns.
type Manager struct {
	cfg       Config
	layout    region.Layout
	graph     *scene.Graph
	mesher    *terrain.Mesher
	populator *content.Populator
	ground    assets.Handle

	regions   map[region.Key]scene.Handle
	states    map[region.Key]State
	current   region.Key
	evaluated bool

	observer Observer
	stats    Stats
	log      *zap.Logger
}

// NewManager creates a streaming manager. The region layout is taken from the
// mesher so geometry and keys always agree.
func NewManager(cfg Config, graph *scene.Graph, mesher *terrain.Mesher, populator *content.Populator) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Manager{
		cfg:       cfg,
		layout:    mesher.Layout,
		graph:     graph,
		mesher:    mesher,
		populator: populator,
		regions:   make(map[region.Key]scene.Handle),
		states:    make(map[region.Key]State),
		log:       logger.Named("world"),
	}, nil
}

// SetObserver installs fn to receive state transitions. Pass nil to remove it.
func (m *Manager) SetObserver(fn Observer) {
	m.observer = fn
}

// SetGroundMaterial sets the material attached to new ground meshes.
func (m *Manager) SetGroundMaterial(h assets.Handle) {
	m.ground = h
}

// Config returns the streaming configuration.
func (m *Manager) Config() Config { return m.cfg }

// Layout returns the region layout.
func (m *Manager) Layout() region.Layout { return m.layout }

// TickFrom runs Tick with the position reported by src.
func (m *Manager) TickFrom(src PositionSource) bool {
	return m.Tick(src.PlayerPosition())
}

// Tick updates the loaded set for a player at pos. The scan runs on the first
// tick and afterwards only when the player enters a different region; it
// reports whether it ran.
//
// Far regions are unloaded before near ones are loaded, which bounds the peak
// number of resident regions.
func (m *Manager) Tick(pos wmath.Vec3) bool {
	key := m.layout.KeyAt(pos)
	if m.evaluated && key == m.current {
		return false
	}
	start := time.Now()
	m.evaluated = true
	m.current = key
	m.stats.Evaluations++

	unloaded := m.unloadBeyond(key, m.cfg.UnloadRadius)
	loaded := m.loadWithin(key, m.cfg.LoadRadius)

	m.log.Debug("regions updated",
		zap.Stringer("player_region", key),
		zap.Int("loaded", loaded),
		zap.Int("unloaded", unloaded),
		zap.Int("resident", len(m.regions)),
		zap.Duration("took", time.Since(start)),
	)
	return true
}

// unloadBeyond removes every region farther than radius from center.
func (m *Manager) unloadBeyond(center region.Key, radius int32) int {
	r2 := int64(radius) * int64(radius)
	var far []region.Key
	for k := range m.regions {
		if k.DistanceSquared(center) > r2 {
			far = append(far, k)
		}
	}
	sortKeys(far)
	for _, k := range far {
		m.unload(k)
	}
	return len(far)
}

func (m *Manager) unload(k region.Key) {
	root := m.regions[k]
	m.transition(k, StateUnloading)
	removed := m.graph.DespawnRecursive(root)
	delete(m.regions, k)
	m.transition(k, StateUnloaded)
	m.stats.Unloads++
	m.log.Debug("region unloaded", zap.Int32("x", k.X), zap.Int32("z", k.Z), zap.Int("nodes", removed))
}

// build is the pure part of loading one region.
type build struct {
	key      region.Key
	mesh     *terrain.Mesh
	collider *terrain.Collider
	err      error
	plan     content.Plan
}

// loadWithin materializes every missing region within radius of center.
// Meshes and content plans are built in parallel; the results are committed
// to the scene one region at a time, nearest first.
func (m *Manager) loadWithin(center region.Key, radius int32) int {
	var missing []region.Key
	for _, k := range region.KeysWithin(center, radius) {
		if _, ok := m.regions[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return 0
	}

	builds := make([]build, len(missing))
	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for i, k := range missing {
		m.transition(k, StateLoading)
		b := &builds[i]
		b.key = k
		g.Go(func() error {
			b.mesh, b.collider, b.err = m.mesher.Build(k)
			if b.mesh != nil {
				b.plan = m.populator.Plan(k)
			}
			return nil
		})
	}
	_ = g.Wait()

	loaded := 0
	for i := range builds {
		if m.commit(&builds[i]) {
			loaded++
		}
	}
	return loaded
}

// commit attaches a built region to the scene. On failure nothing of the
// region remains in the graph.
func (m *Manager) commit(b *build) bool {
	k := b.key
	if errors.Is(b.err, terrain.ErrInvalidOrigin) || b.mesh == nil {
		m.log.Warn("region skipped", zap.Int32("x", k.X), zap.Int32("z", k.Z), zap.Error(b.err))
		m.stats.Skipped++
		m.transition(k, StateUnloaded)
		return false
	}

	var col *scene.Collider
	switch {
	case b.collider != nil:
		col = scene.Box(b.collider.HalfExtents)
		col.Offset = b.collider.Center
	case errors.Is(b.err, terrain.ErrInvalidCollider):
		m.log.Warn("region ground has no collider", zap.Int32("x", k.X), zap.Int32("z", k.Z), zap.Error(b.err))
		m.stats.DegradedColliders++
	}

	root, err := m.graph.SpawnChild(m.graph.Root(),
		scene.TransformAt(m.layout.Origin(k)),
		scene.Renderable{Tags: scene.TagRegion},
		nil)
	if err != nil {
		m.log.Error("region root spawn failed", zap.Int32("x", k.X), zap.Int32("z", k.Z), zap.Error(err))
		m.stats.Skipped++
		m.transition(k, StateUnloaded)
		return false
	}

	_, err = m.graph.SpawnChild(root,
		scene.TransformAt(wmath.Vec3{}),
		scene.Renderable{Mesh: b.mesh, Material: m.ground, Tags: scene.TagGround},
		col)
	if err == nil {
		_, err = m.populator.Spawn(&b.plan, root)
	}
	if err != nil {
		m.graph.DespawnRecursive(root)
		m.log.Error("region population failed", zap.Int32("x", k.X), zap.Int32("z", k.Z), zap.Error(err))
		m.stats.Skipped++
		m.transition(k, StateUnloaded)
		return false
	}

	m.regions[k] = root
	m.stats.Loads++
	m.transition(k, StateLoaded)
	m.log.Debug("region loaded",
		zap.Int32("x", k.X), zap.Int32("z", k.Z),
		zap.Int("objects", len(b.plan.Placements)),
		zap.Bool("settlement", b.plan.Settlement),
		zap.Bool("patrol", b.plan.Patrol),
	)
	return true
}

func (m *Manager) transition(k region.Key, to State) {
	from := m.states[k]
	if to == StateUnloaded {
		delete(m.states, k)
	} else {
		m.states[k] = to
	}
	if m.observer != nil {
		m.observer(k, from, to)
	}
}

// State returns the lifecycle state of region k.
func (m *Manager) State(k region.Key) State {
	return m.states[k]
}

// Root returns the scene root of a loaded region.
func (m *Manager) Root(k region.Key) (scene.Handle, bool) {
	h, ok := m.regions[k]
	return h, ok
}

// Count returns the number of loaded regions.
func (m *Manager) Count() int { return len(m.regions) }

// Loaded returns the loaded region keys ordered by X, then Z.
func (m *Manager) Loaded() []region.Key {
	keys := make([]region.Key, 0, len(m.regions))
	for k := range m.regions {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// PlayerRegion returns the region of the last evaluated tick.
func (m *Manager) PlayerRegion() region.Key { return m.current }

// Stats returns streaming counters.
func (m *Manager) Stats() Stats { return m.stats }

// Close unloads every region. The manager can be ticked again afterwards and
// will rebuild from scratch.
func (m *Manager) Close() {
	for _, k := range m.Loaded() {
		m.unload(k)
	}
	m.evaluated = false
}

func sortKeys(keys []region.Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Z < keys[j].Z
	})
}
