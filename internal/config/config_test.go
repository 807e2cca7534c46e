package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.World.RegionEdge != 1000 {
		t.Errorf("expected region edge 1000, got %g", cfg.World.RegionEdge)
	}
	if cfg.World.Subdivisions != 20 {
		t.Errorf("expected 20 subdivisions, got %d", cfg.World.Subdivisions)
	}
	if cfg.World.SmoothNormals {
		t.Error("expected smooth normals to be off by default")
	}

	if cfg.Streaming.LoadRadius != 8 {
		t.Errorf("expected load radius 8, got %d", cfg.Streaming.LoadRadius)
	}
	if cfg.Streaming.UnloadRadius != 12 {
		t.Errorf("expected unload radius 12, got %d", cfg.Streaming.UnloadRadius)
	}

	if cfg.LOD.HideDistance != 20000 {
		t.Errorf("expected hide distance 20000, got %g", cfg.LOD.HideDistance)
	}

	if cfg.Simulation.TickRate != 60 {
		t.Errorf("expected tick rate 60, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.CruiseAltitude != 500 {
		t.Errorf("expected cruise altitude 500, got %g", cfg.Simulation.CruiseAltitude)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
world:
  region_edge: 500
  subdivisions: 32
  smooth_normals: true
  height_cache_entries: 0

streaming:
  load_radius: 4
  unload_radius: 6
  mesh_workers: 2

lod:
  hide_distance: 8000

simulation:
  tick_rate: 30
  duration: 90s
  cruise_speed: 120
  heading_deg: 45
  weave_amplitude: 300

assets:
  roots: ["base", "mods"]

logging:
  level: "debug"
  log_file: "skybound.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.World.RegionEdge != 500 {
		t.Errorf("expected region edge 500, got %g", cfg.World.RegionEdge)
	}
	if cfg.World.Subdivisions != 32 {
		t.Errorf("expected 32 subdivisions, got %d", cfg.World.Subdivisions)
	}
	if !cfg.World.SmoothNormals {
		t.Error("expected smooth normals to be true")
	}
	if cfg.World.HeightCacheEntries != 0 {
		t.Errorf("expected height cache disabled, got %d", cfg.World.HeightCacheEntries)
	}
	// Keys absent from the file keep their defaults.
	if cfg.World.UVTiling != 10 {
		t.Errorf("expected default uv tiling 10, got %g", cfg.World.UVTiling)
	}

	if cfg.Streaming.LoadRadius != 4 || cfg.Streaming.UnloadRadius != 6 {
		t.Errorf("expected radii 4/6, got %d/%d", cfg.Streaming.LoadRadius, cfg.Streaming.UnloadRadius)
	}
	if cfg.Streaming.MeshWorkers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Streaming.MeshWorkers)
	}

	if cfg.LOD.HideDistance != 8000 {
		t.Errorf("expected hide distance 8000, got %g", cfg.LOD.HideDistance)
	}

	if cfg.Simulation.TickRate != 30 {
		t.Errorf("expected tick rate 30, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Duration != 90*time.Second {
		t.Errorf("expected duration 90s, got %v", cfg.Simulation.Duration)
	}
	if cfg.Simulation.HeadingDeg != 45 {
		t.Errorf("expected heading 45, got %g", cfg.Simulation.HeadingDeg)
	}

	if len(cfg.Assets.Roots) != 2 || cfg.Assets.Roots[1] != "mods" {
		t.Errorf("expected roots [base mods], got %v", cfg.Assets.Roots)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "skybound.log" {
		t.Errorf("expected log file 'skybound.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "world:\n  region_edge: not a number\n  invalid syntax here\n"},
		{"unknown key", "world:\n  region_size: 1000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Streaming.LoadRadius != 8 {
		t.Errorf("expected defaults to survive, got load radius %d", cfg.Streaming.LoadRadius)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero region edge", func(c *Config) { c.World.RegionEdge = 0 }},
		{"zero subdivisions", func(c *Config) { c.World.Subdivisions = 0 }},
		{"zero collider thickness", func(c *Config) { c.World.ColliderThickness = 0 }},
		{"negative cache", func(c *Config) { c.World.HeightCacheEntries = -1 }},
		{"zero load radius", func(c *Config) { c.Streaming.LoadRadius = 0 }},
		{"unload equals load", func(c *Config) { c.Streaming.UnloadRadius = c.Streaming.LoadRadius }},
		{"unload inside load", func(c *Config) { c.Streaming.UnloadRadius = 3 }},
		{"negative workers", func(c *Config) { c.Streaming.MeshWorkers = -1 }},
		{"zero hide distance", func(c *Config) { c.LOD.HideDistance = 0 }},
		{"zero tick rate", func(c *Config) { c.Simulation.TickRate = 0 }},
		{"negative duration", func(c *Config) { c.Simulation.Duration = -time.Second }},
		{"zero pixels per region", func(c *Config) { c.Viewer.PixelsPerRegion = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("streaming:\n  load_radius: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "radius flags",
			setup: func() {
				*flagLoadRadius = 3
				*flagUnloadRadius = 5
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Streaming.LoadRadius != 3 {
					t.Errorf("expected load radius 3, got %d", cfg.Streaming.LoadRadius)
				}
				if cfg.Streaming.UnloadRadius != 5 {
					t.Errorf("expected unload radius 5, got %d", cfg.Streaming.UnloadRadius)
				}
			},
			teardown: func() {
				*flagLoadRadius = 0
				*flagUnloadRadius = 0
			},
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 6 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Streaming.MeshWorkers != 6 {
					t.Errorf("expected 6 workers, got %d", cfg.Streaming.MeshWorkers)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name:  "duration flag",
			setup: func() { *flagDuration = 2 * time.Minute },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Duration != 2*time.Minute {
					t.Errorf("expected duration 2m, got %v", cfg.Simulation.Duration)
				}
			},
			teardown: func() { *flagDuration = 0 },
		},
		{
			name:  "smooth normals flag",
			setup: func() { *flagSmoothNormals = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.World.SmoothNormals {
					t.Error("expected smooth normals with flag")
				}
			},
			teardown: func() { *flagSmoothNormals = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
streaming:
  load_radius: 5
  unload_radius: 9
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagLoadRadius = 6
	defer func() {
		*flagConfig = ""
		*flagLoadRadius = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Load radius from flag (6), not file (5)
	if cfg.Streaming.LoadRadius != 6 {
		t.Errorf("expected load radius 6 from flag, got %d", cfg.Streaming.LoadRadius)
	}

	// Unload radius from file (9) since no flag override
	if cfg.Streaming.UnloadRadius != 9 {
		t.Errorf("expected unload radius 9 from file, got %d", cfg.Streaming.UnloadRadius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("streaming:\n  load_radius: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Streaming.LoadRadius = 3
	cfg.Simulation.Duration = 45 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Streaming.LoadRadius != 3 {
		t.Errorf("expected load radius 3 after reload, got %d", loaded.Streaming.LoadRadius)
	}
	if loaded.Simulation.Duration != 45*time.Second {
		t.Errorf("expected duration 45s after reload, got %v", loaded.Simulation.Duration)
	}
}
