package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagLoadRadius    = flag.Int("load-radius", 0, "Region load radius")
	flagUnloadRadius  = flag.Int("unload-radius", 0, "Region unload radius")
	flagWorkers       = flag.Int("workers", 0, "Parallel region builders")
	flagDuration      = flag.Duration("duration", 0, "Stop the simulation after this long")
	flagSmoothNormals = flag.Bool("smooth-normals", false, "Use smooth terrain normals")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLoadRadius > 0 {
		cfg.Streaming.LoadRadius = int32(*flagLoadRadius)
	}
	if *flagUnloadRadius > 0 {
		cfg.Streaming.UnloadRadius = int32(*flagUnloadRadius)
	}
	if *flagWorkers > 0 {
		cfg.Streaming.MeshWorkers = *flagWorkers
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagSmoothNormals {
		cfg.World.SmoothNormals = true
	}
}
