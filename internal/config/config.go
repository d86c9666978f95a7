// Package config handles tool configuration loading and management.
package config

import "time"

// Config holds all tool settings.
type Config struct {
	Palette  PaletteConfig  `yaml:"palette"`
	Playback PlaybackConfig `yaml:"playback"`
	Render   RenderConfig   `yaml:"render"`
	Export   ExportConfig   `yaml:"export"`
	Audio    AudioConfig    `yaml:"audio"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PaletteConfig selects the palette used to color skins.
type PaletteConfig struct {
	Path string `yaml:"path"` // File or archive entry name; last 768 bytes are used
}

// PlaybackConfig holds animation clock settings.
type PlaybackConfig struct {
	FrameDuration time.Duration `yaml:"frame_duration"`
	Interpolate   bool          `yaml:"interpolate"`
}

// RenderConfig holds triangulation and mesh settings.
type RenderConfig struct {
	Pass          string `yaml:"pass"`      // all, opaque or translucent
	FlagMask      uint8  `yaml:"flag_mask"` // keep faces with any of these bits; 0 keeps all
	BackFaces     bool   `yaml:"back_faces"`
	SmoothNormals bool   `yaml:"smooth_normals"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	OutputDir  string `yaml:"output_dir"`
	SkinFormat string `yaml:"skin_format"` // png, webp or bmp
	SkinScale  int    `yaml:"skin_scale"`
}

// AudioConfig holds sound decoding settings.
type AudioConfig struct {
	OutputSampleRate int     `yaml:"output_sample_rate"`
	MasterVolume     float64 `yaml:"master_volume"`
}

// DataConfig holds game data locations.
type DataConfig struct {
	ArchivePaths []string `yaml:"archive_paths"` // CSM.BIN archives, later entries win
	SearchDirs   []string `yaml:"search_dirs"`   // Loose-file directories
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Palette: PaletteConfig{
			Path: "CHASM2.PAL",
		},
		Playback: PlaybackConfig{
			FrameDuration: 100 * time.Millisecond,
			Interpolate:   true,
		},
		Render: RenderConfig{
			Pass:      "all",
			BackFaces: true,
		},
		Export: ExportConfig{
			OutputDir:  ".",
			SkinFormat: "png",
			SkinScale:  1,
		},
		Audio: AudioConfig{
			OutputSampleRate: 44100,
			MasterVolume:     1.0,
		},
		Data: DataConfig{
			SearchDirs: []string{"."},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
