package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagPalette = flag.String("palette", "", "Palette file")
	flagArchive = flag.String("archive", "", "CSM.BIN archive to load (added after configured archives)")
	flagOut     = flag.String("out", "", "Output directory for exports")
)

// ParseFlags parses command-line flags. Call this early in main().
// Parsing stops at the first non-flag argument, which is left in flag.Args().
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
	if *flagPalette != "" {
		cfg.Palette.Path = *flagPalette
	}
	if *flagArchive != "" {
		cfg.Data.ArchivePaths = append(cfg.Data.ArchivePaths, *flagArchive)
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
}
