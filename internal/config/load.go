package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	switch c.Render.Pass {
	case "all", "opaque", "translucent":
	default:
		return fmt.Errorf("render.pass: unknown pass %q", c.Render.Pass)
	}
	switch c.Export.SkinFormat {
	case "png", "webp", "bmp":
	default:
		return fmt.Errorf("export.skin_format: unknown format %q", c.Export.SkinFormat)
	}
	if c.Export.SkinScale < 1 {
		return fmt.Errorf("export.skin_scale: must be at least 1, got %d", c.Export.SkinScale)
	}
	if c.Playback.FrameDuration <= 0 {
		return fmt.Errorf("playback.frame_duration: must be positive, got %v", c.Playback.FrameDuration)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ChasmRift")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ChasmRift")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "chasm-rift")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "chasm-rift")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
