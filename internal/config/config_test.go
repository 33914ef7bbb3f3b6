package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs so
// only the embedded default is visible to Load.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestEmbeddedDefaultMatchesDefaultConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadCustomPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("simulation:\n  max_steps: 50\n  legacy_right_gate: true\ncache:\n  redis_addr: localhost:6379\n  ttl: 5m\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Simulation.MaxSteps)
	assert.True(t, cfg.Simulation.LegacyRightGate)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Serve.HTTPAddr)
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("simulation: [\n"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log:\n  level: loud\n"), 0o600))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "log.level")
}

func TestLoadSearchOrder(t *testing.T) {
	home := isolate(t)

	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(LocalPath, []byte("simulation:\n  max_steps: 300\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Simulation.MaxSteps, "local config should be used")

	userDir := filepath.Join(home, ".mirrorhouse")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("simulation:\n  max_steps: 40\n"), 0o600))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Simulation.MaxSteps, "user config should win over local")
}

func TestLoadSpeedPreset(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "speed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch:\n  speed: fast\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Watch.StepsPerSecond)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative max steps", func(c *Config) { c.Simulation.MaxSteps = -1 }, "max_steps"},
		{"storage without path", func(c *Config) { c.Storage.DBPath = " " }, "db_path"},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero rate", func(c *Config) { c.Watch.StepsPerSecond = 0 }, "steps_per_second"},
		{"rate too high", func(c *Config) { c.Watch.StepsPerSecond = 1000 }, "steps_per_second"},
		{"unknown speed", func(c *Config) { c.Watch.Speed = "ludicrous" }, "watch.speed"},
		{"negative idle timeout", func(c *Config) { c.Serve.IdleTimeout = -time.Second }, "idle_timeout"},
		{"cache without ttl", func(c *Config) { c.Cache.RedisAddr = "x:1"; c.Cache.TTL = 0 }, "cache.ttl"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestValidateAllowsZeroMaxSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.MaxSteps = 0
	cfg.Storage.Enabled = false
	cfg.Storage.DBPath = ""
	assert.NoError(t, cfg.Validate())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/x/history.db", filepath.Join(home, "x", "history.db")},
		{"~", home},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~other/path", "~other/path"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpandHome(tc.in))
		})
	}
}

func TestSpeedPresets(t *testing.T) {
	prev := 0
	for _, p := range SpeedPresets {
		sps, ok := StepsPerSecondForPreset(p)
		require.True(t, ok, p)
		assert.Greater(t, sps, prev, "presets should be increasing")
		prev = sps
	}

	_, ok := StepsPerSecondForPreset("warp")
	assert.False(t, ok)
	assert.True(t, IsSpeedPreset("SLOW"))
}

func TestPacer(t *testing.T) {
	p := NewPacer(100)
	assert.Equal(t, MaxStepsPerSecond, p.StepsPerSecond())
	assert.Equal(t, MaxStepsPerSecond, p.Faster())

	p = NewPacer(3)
	assert.Equal(t, 1, p.Slower())
	assert.Equal(t, 1, p.Slower())
	assert.Equal(t, 2, p.Faster())
	assert.Equal(t, 4, p.Faster())
}
