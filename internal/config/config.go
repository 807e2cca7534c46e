// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Streaming  StreamingConfig  `yaml:"streaming"`
	LOD        LODConfig        `yaml:"lod"`
	Simulation SimulationConfig `yaml:"simulation"`
	Assets     AssetsConfig     `yaml:"assets"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WorldConfig holds terrain and region geometry settings.
type WorldConfig struct {
	RegionEdge         float32 `yaml:"region_edge"`
	Subdivisions       int     `yaml:"subdivisions"`
	UVTiling           float32 `yaml:"uv_tiling"`
	ColliderThickness  float32 `yaml:"collider_thickness"`
	SmoothNormals      bool    `yaml:"smooth_normals"`
	HeightCacheEntries int64   `yaml:"height_cache_entries"` // 0 disables the height cache
}

// StreamingConfig holds region streaming settings.
type StreamingConfig struct {
	LoadRadius   int32 `yaml:"load_radius"`
	UnloadRadius int32 `yaml:"unload_radius"`
	MeshWorkers  int   `yaml:"mesh_workers"` // 0 uses GOMAXPROCS
}

// LODConfig holds detail culling settings.
type LODConfig struct {
	HideDistance float32 `yaml:"hide_distance"`
}

// SimulationConfig holds the headless loop and autopilot settings.
type SimulationConfig struct {
	TickRate       int           `yaml:"tick_rate"` // ticks per second
	Duration       time.Duration `yaml:"duration"`  // 0 runs until interrupted
	CruiseSpeed    float32       `yaml:"cruise_speed"`
	CruiseAltitude float32       `yaml:"cruise_altitude"`
	HeadingDeg     float32       `yaml:"heading_deg"`
	WeaveAmplitude float32       `yaml:"weave_amplitude"`
}

// AssetsConfig holds asset search roots. Later roots take priority.
type AssetsConfig struct {
	Roots []string `yaml:"roots"`
}

// ViewerConfig holds region map window settings.
type ViewerConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	PixelsPerRegion int `yaml:"pixels_per_region"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			RegionEdge:         1000,
			Subdivisions:       20,
			UVTiling:           10,
			ColliderThickness:  0.5,
			SmoothNormals:      false,
			HeightCacheEntries: 1 << 16,
		},
		Streaming: StreamingConfig{
			LoadRadius:   8,
			UnloadRadius: 12,
			MeshWorkers:  0,
		},
		LOD: LODConfig{
			HideDistance: 20000,
		},
		Simulation: SimulationConfig{
			TickRate:       60,
			Duration:       0,
			CruiseSpeed:    250,
			CruiseAltitude: 500,
			HeadingDeg:     0,
			WeaveAmplitude: 0,
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
		Viewer: ViewerConfig{
			Width:           1024,
			Height:          768,
			PixelsPerRegion: 24,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.RegionEdge <= 0:
		return fmt.Errorf("%w: world.region_edge must be positive, got %g", ErrInvalid, c.World.RegionEdge)
	case c.World.Subdivisions <= 0:
		return fmt.Errorf("%w: world.subdivisions must be positive, got %d", ErrInvalid, c.World.Subdivisions)
	case c.World.ColliderThickness <= 0:
		return fmt.Errorf("%w: world.collider_thickness must be positive, got %g", ErrInvalid, c.World.ColliderThickness)
	case c.World.HeightCacheEntries < 0:
		return fmt.Errorf("%w: world.height_cache_entries must not be negative", ErrInvalid)
	case c.Streaming.LoadRadius <= 0:
		return fmt.Errorf("%w: streaming.load_radius must be positive, got %d", ErrInvalid, c.Streaming.LoadRadius)
	case c.Streaming.UnloadRadius <= c.Streaming.LoadRadius:
		return fmt.Errorf("%w: streaming.unload_radius (%d) must exceed load_radius (%d)",
			ErrInvalid, c.Streaming.UnloadRadius, c.Streaming.LoadRadius)
	case c.Streaming.MeshWorkers < 0:
		return fmt.Errorf("%w: streaming.mesh_workers must not be negative", ErrInvalid)
	case c.LOD.HideDistance <= 0:
		return fmt.Errorf("%w: lod.hide_distance must be positive, got %g", ErrInvalid, c.LOD.HideDistance)
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("%w: simulation.tick_rate must be positive, got %d", ErrInvalid, c.Simulation.TickRate)
	case c.Simulation.Duration < 0:
		return fmt.Errorf("%w: simulation.duration must not be negative", ErrInvalid)
	case c.Viewer.PixelsPerRegion <= 0:
		return fmt.Errorf("%w: viewer.pixels_per_region must be positive, got %d", ErrInvalid, c.Viewer.PixelsPerRegion)
	}
	return nil
}
