package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mirrorhouse.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			MaxSteps: 2000,
		},
		Storage: StorageConfig{
			Enabled: true,
			DBPath:  "~/.mirrorhouse/history.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			StepsPerSecond: 8,
		},
		Serve: ServeConfig{
			SSHAddr:     ":23235",
			HostKey:     "~/.mirrorhouse/ssh_host_ed25519",
			HTTPAddr:    ":8080",
			IdleTimeout: 30 * time.Minute,
			PuzzlesDir:  "./puzzles",
		},
		Cache: CacheConfig{
			TTL:    time.Hour,
			Prefix: "mirrorhouse:run:",
		},
	}
}
