package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalPath is the project-local config file, relative to the working directory.
const LocalPath = "configs/mirrorhouse.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.mirrorhouse/config.yaml -> ./configs/mirrorhouse.yaml -> embedded default.
// Keys missing from the chosen file keep their default values.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := cfg
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return finish(candidate)
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(LocalPath); err == nil {
		candidate := cfg
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return finish(candidate)
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return finish(cfg)
}

// finish resolves the watch speed preset and validates the result.
func finish(cfg Config) (Config, error) {
	if cfg.Watch.Speed != "" {
		if sps, ok := StepsPerSecondForPreset(SpeedPreset(cfg.Watch.Speed)); ok {
			cfg.Watch.StepsPerSecond = sps
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mirrorhouse", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 1 || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
