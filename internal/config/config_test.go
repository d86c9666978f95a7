package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Palette.Path != "CHASM2.PAL" {
		t.Errorf("expected palette CHASM2.PAL, got %s", cfg.Palette.Path)
	}

	// Test playback defaults
	if cfg.Playback.FrameDuration != 100*time.Millisecond {
		t.Errorf("expected frame duration 100ms, got %v", cfg.Playback.FrameDuration)
	}
	if !cfg.Playback.Interpolate {
		t.Error("expected interpolation on by default")
	}

	// Test render defaults
	if cfg.Render.Pass != "all" {
		t.Errorf("expected pass 'all', got %s", cfg.Render.Pass)
	}
	if cfg.Render.FlagMask != 0 {
		t.Errorf("expected empty flag mask, got 0x%02X", cfg.Render.FlagMask)
	}

	// Test export defaults
	if cfg.Export.SkinFormat != "png" || cfg.Export.SkinScale != 1 {
		t.Errorf("unexpected export defaults %+v", cfg.Export)
	}

	// Test audio defaults
	if cfg.Audio.OutputSampleRate != 44100 {
		t.Errorf("expected output rate 44100, got %d", cfg.Audio.OutputSampleRate)
	}
	if cfg.Audio.MasterVolume != 1.0 {
		t.Errorf("expected master volume 1.0, got %f", cfg.Audio.MasterVolume)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
palette:
  path: "/games/chasm/CHASM.PAL"

playback:
  frame_duration: 50ms
  interpolate: false

render:
  pass: translucent
  flag_mask: 12
  back_faces: false
  smooth_normals: true

export:
  output_dir: "out"
  skin_format: webp
  skin_scale: 4

audio:
  output_sample_rate: 22050
  master_volume: 0.5

data:
  archive_paths:
    - "CSM.BIN"
    - "ADDON.BIN"
  search_dirs:
    - "CAR"

logging:
  level: "debug"
  log_file: "chasmtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Palette.Path != "/games/chasm/CHASM.PAL" {
		t.Errorf("unexpected palette %s", cfg.Palette.Path)
	}
	if cfg.Playback.FrameDuration != 50*time.Millisecond {
		t.Errorf("expected frame duration 50ms, got %v", cfg.Playback.FrameDuration)
	}
	if cfg.Playback.Interpolate {
		t.Error("expected interpolation off")
	}
	if cfg.Render.Pass != "translucent" || cfg.Render.FlagMask != 12 {
		t.Errorf("unexpected render config %+v", cfg.Render)
	}
	if cfg.Render.BackFaces || !cfg.Render.SmoothNormals {
		t.Errorf("unexpected render toggles %+v", cfg.Render)
	}
	if cfg.Export.OutputDir != "out" || cfg.Export.SkinFormat != "webp" || cfg.Export.SkinScale != 4 {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
	if cfg.Audio.OutputSampleRate != 22050 {
		t.Errorf("expected output rate 22050, got %d", cfg.Audio.OutputSampleRate)
	}
	if len(cfg.Data.ArchivePaths) != 2 || cfg.Data.ArchivePaths[1] != "ADDON.BIN" {
		t.Errorf("unexpected archives %v", cfg.Data.ArchivePaths)
	}
	if len(cfg.Data.SearchDirs) != 1 || cfg.Data.SearchDirs[0] != "CAR" {
		t.Errorf("unexpected search dirs %v", cfg.Data.SearchDirs)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "chasmtool.log" {
		t.Errorf("expected log file 'chasmtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  skin_scale: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
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
		{"unknown pass", func(c *Config) { c.Render.Pass = "wireframe" }},
		{"unknown skin format", func(c *Config) { c.Export.SkinFormat = "tga" }},
		{"zero scale", func(c *Config) { c.Export.SkinScale = 0 }},
		{"zero frame duration", func(c *Config) { c.Playback.FrameDuration = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  skin_scale: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
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
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "palette flag",
			setup: func() {
				*flagPalette = "CHASM.PAL"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Palette.Path != "CHASM.PAL" {
					t.Errorf("expected palette CHASM.PAL, got %s", cfg.Palette.Path)
				}
			},
			teardown: func() {
				*flagPalette = ""
			},
		},
		{
			name: "archive flag",
			setup: func() {
				*flagArchive = "CSM.BIN"
			},
			verify: func(t *testing.T, cfg *Config) {
				n := len(cfg.Data.ArchivePaths)
				if n == 0 || cfg.Data.ArchivePaths[n-1] != "CSM.BIN" {
					t.Errorf("expected CSM.BIN appended, got %v", cfg.Data.ArchivePaths)
				}
			},
			teardown: func() {
				*flagArchive = ""
			},
		},
		{
			name: "out flag",
			setup: func() {
				*flagOut = "/tmp/export"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.OutputDir != "/tmp/export" {
					t.Errorf("expected output dir /tmp/export, got %s", cfg.Export.OutputDir)
				}
			},
			teardown: func() {
				*flagOut = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
palette:
  path: "FILE.PAL"
export:
  output_dir: "from-file"
  skin_scale: 3
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagOut = "from-flag"
	defer func() {
		*flagConfig = ""
		*flagOut = ""
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Output dir should be from flag, not file
	if cfg.Export.OutputDir != "from-flag" {
		t.Errorf("expected output dir from flag, got %s", cfg.Export.OutputDir)
	}

	// Scale and palette should be from file since no flag override
	if cfg.Export.SkinScale != 3 {
		t.Errorf("expected scale 3 from file, got %d", cfg.Export.SkinScale)
	}
	if cfg.Palette.Path != "FILE.PAL" {
		t.Errorf("expected palette from file, got %s", cfg.Palette.Path)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Export.SkinFormat = "bmp"
	cfg.Playback.FrameDuration = 250 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Export.SkinFormat != "bmp" {
		t.Errorf("expected bmp after reload, got %s", loaded.Export.SkinFormat)
	}
	if loaded.Playback.FrameDuration != 250*time.Millisecond {
		t.Errorf("expected 250ms after reload, got %v", loaded.Playback.FrameDuration)
	}
}
