// Package config provides YAML-based configuration loading for the
// mirrorhouse tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the full mirrorhouse configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	Watch      WatchConfig      `yaml:"watch"`
	Serve      ServeConfig      `yaml:"serve"`
	Cache      CacheConfig      `yaml:"cache"`
}

// SimulationConfig controls the beam engine.
type SimulationConfig struct {
	MaxSteps        int  `yaml:"max_steps"`         // 0 = engine default
	LegacyRightGate bool `yaml:"legacy_right_gate"` // historical gate for Right into R-lean single-sided mirrors
}

// StorageConfig controls run history persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// WatchConfig controls the animated viewer.
type WatchConfig struct {
	StepsPerSecond int    `yaml:"steps_per_second"`
	Speed          string `yaml:"speed"` // optional preset, overrides steps_per_second
}

// ServeConfig controls the SSH and HTTP servers.
type ServeConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKey     string        `yaml:"host_key"`
	HTTPAddr    string        `yaml:"http_addr"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	PuzzlesDir  string        `yaml:"puzzles_dir"`
}

// CacheConfig controls the Redis result cache. An empty address
// disables caching.
type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
	Prefix    string        `yaml:"prefix"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json", "logfmt"}
)

// Validate rejects values the tools cannot work with.
func (c Config) Validate() error {
	var errs []error

	if c.Simulation.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_steps must not be negative, got %d", c.Simulation.MaxSteps))
	}
	if c.Storage.Enabled && strings.TrimSpace(c.Storage.DBPath) == "" {
		errs = append(errs, errors.New("storage.db_path is required when storage is enabled"))
	}
	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s, got %q", strings.Join(validLevels, ", "), c.Log.Level))
	}
	if !contains(validFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of %s, got %q", strings.Join(validFormats, ", "), c.Log.Format))
	}
	if c.Watch.StepsPerSecond < MinStepsPerSecond || c.Watch.StepsPerSecond > MaxStepsPerSecond {
		errs = append(errs, fmt.Errorf("watch.steps_per_second must be within %d..%d, got %d",
			MinStepsPerSecond, MaxStepsPerSecond, c.Watch.StepsPerSecond))
	}
	if c.Watch.Speed != "" && !IsSpeedPreset(c.Watch.Speed) {
		errs = append(errs, fmt.Errorf("watch.speed: unknown preset %q", c.Watch.Speed))
	}
	if c.Serve.IdleTimeout < 0 {
		errs = append(errs, errors.New("serve.idle_timeout must not be negative"))
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive when a redis address is set"))
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
