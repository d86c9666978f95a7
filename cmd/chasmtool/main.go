// chasmtool is a CLI utility for inspecting and exporting Chasm: The Rift
// models and CSM.BIN archives.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/chasm-rift/internal/assets"
	"github.com/Faultbox/chasm-rift/internal/config"
	"github.com/Faultbox/chasm-rift/internal/logger"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "clips":
		cmdClips(args)
	case "skin":
		cmdSkin(args)
	case "sounds":
		cmdSounds(args)
	case "obj":
		cmdOBJ(args)
	case "watch":
		cmdWatch(args)
	case "list", "ls":
		cmdList(args)
	case "extract", "x":
		cmdExtract(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chasmtool - Chasm: The Rift model utility

Usage:
  chasmtool [global options] <command> [options]

Global options:
  -config <file>     Config file (default: search standard locations)
  -palette <name>    Palette file or archive entry
  -archive <file>    CSM.BIN archive to search
  -out <dir>         Output directory for exports
  -debug             Enable debug logging

Commands:
  info <model>                       Show model information
  clips <model>                      List animation clips and sounds
  skin <model>                       Export the skin as an image
  sounds <model>                     Export embedded sounds as WAV files
  obj <model>                        Export a posed mesh as Wavefront OBJ
  watch <model>                      Reprint model info when its file changes
  list <archive> [pattern]           List archive entries
  extract <archive> <name> [output]  Extract entries (name may be a pattern)

Examples:
  chasmtool -palette CHASM2.PAL info HERO.CAR
  chasmtool -out ./export skin -format webp -scale 4 HERO.CAR
  chasmtool obj -clip 1 -time 0.25 HERO.CAR
  chasmtool list CSM.BIN "*.car"`)
}

// exitOnError prints err and exits when it is non-nil.
func exitOnError(err error) {
	if err == nil {
		return
	}
	logger.Debug("command failed", zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// setup loads configuration, starts logging and opens the configured data
// sources.
func setup() (*config.Config, *assets.Manager) {
	cfg, err := config.Load()
	exitOnError(err)
	exitOnError(logger.Init(cfg.Logging.Level, cfg.Logging.LogFile))

	mgr := assets.NewManager()
	for _, dir := range cfg.Data.SearchDirs {
		if err := mgr.AddSearchDir(dir); err != nil {
			logger.Warn("skipping search dir", zap.String("dir", dir), zap.Error(err))
		}
	}
	for _, path := range cfg.Data.ArchivePaths {
		exitOnError(mgr.AddArchive(path))
	}
	return cfg, mgr
}
