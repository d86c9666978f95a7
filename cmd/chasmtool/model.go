package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/chasm-rift/internal/assets"
	"github.com/Faultbox/chasm-rift/internal/config"
	"github.com/Faultbox/chasm-rift/internal/engine/audio"
	"github.com/Faultbox/chasm-rift/internal/engine/model"
	"github.com/Faultbox/chasm-rift/internal/export"
	"github.com/Faultbox/chasm-rift/internal/logger"
	"github.com/Faultbox/chasm-rift/pkg/formats"
)

func loadModel(cfg *config.Config, mgr *assets.Manager, name, ani string) (*formats.Model, error) {
	pal, err := mgr.LoadPalette(cfg.Palette.Path)
	if err != nil {
		return nil, err
	}
	if ani != "" {
		return mgr.LoadAnimated(name, ani, pal)
	}
	return mgr.LoadModel(name, pal)
}

// baseName strips directories and the extension, e.g. "data/HERO.CAR" -> "HERO".
func baseName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func cmdInfo(args []string) {
	mf := newModelFlags("info")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	m, err := loadModel(cfg, mgr, name, *mf.ani)
	exitOnError(err)
	printInfo(os.Stdout, name, m)
}

func printInfo(w io.Writer, name string, m *formats.Model) {
	fmt.Fprintf(w, "Model:      %s\n", name)
	fmt.Fprintf(w, "Format:     %s\n", m.Format)
	fmt.Fprintf(w, "Vertices:   %d\n", m.VertexCount)
	fmt.Fprintf(w, "Faces:      %d\n", len(m.Faces))
	fmt.Fprintf(w, "Frames:     %d\n", m.FrameCount())
	fmt.Fprintf(w, "Clips:      %d\n", len(m.Clips))
	fmt.Fprintf(w, "Sounds:     %d\n", len(m.Sounds))
	fmt.Fprintf(w, "Skin:       %dx%d\n", m.Skin.Width, m.Skin.Height)
	fmt.Fprintf(w, "Background: palette index %d\n", m.Background)
	fmt.Fprintf(w, "Center:     %.1f %.1f %.1f\n", m.Center[0], m.Center[1], m.Center[2])

	passes := make(map[formats.FaceTrait]int)
	for i := range m.Faces {
		passes[m.Faces[i].Traits.Pass()]++
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Faces by pass:")
	for _, p := range []formats.FaceTrait{
		formats.TraitOpaque, formats.TraitHalfTranslucent,
		formats.TraitVeryTranslucent, formats.TraitInvisible,
	} {
		if passes[p] > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", p, passes[p])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Faces by flag bit:")
	for bit, n := range m.FlagCounts() {
		if n > 0 {
			fmt.Fprintf(w, "  bit %d (0x%02X)  %d\n", bit, 1<<bit, n)
		}
	}
}

func cmdClips(args []string) {
	mf := newModelFlags("clips")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	m, err := loadModel(cfg, mgr, name, *mf.ani)
	exitOnError(err)

	frame := cfg.Playback.FrameDuration
	fmt.Printf("%-5s %-5s %-6s %-6s %s\n", "CLIP", "SLOT", "START", "FRAMES", "LENGTH")
	for i, c := range m.Clips {
		slot := "-"
		if c.Slot >= 0 {
			slot = fmt.Sprint(c.Slot)
		}
		fmt.Printf("%-5d %-5s %-6d %-6d %v\n", i, slot, c.Start, c.Count, frame*time.Duration(c.Count))
	}

	if len(m.Sounds) == 0 {
		return
	}
	bank := newBank(cfg)
	exitOnError(bank.Load(m.Sounds))

	fmt.Println()
	fmt.Printf("%-5s %-6s %-6s %s\n", "SLOT", "BYTES", "VOLUME", "LENGTH")
	for _, s := range m.Sounds {
		d, err := bank.Duration(s.Slot)
		exitOnError(err)
		fmt.Printf("%-5d %-6d %-6d %v\n", s.Slot, s.Length, s.Volume, d.Round(time.Millisecond))
	}
}

func cmdSkin(args []string) {
	mf := newModelFlags("skin")
	format := mf.fs.String("format", "", "Image format: png, webp or bmp (default from config)")
	scale := mf.fs.Int("scale", 0, "Integer upscale factor (default from config)")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	if *format == "" {
		*format = cfg.Export.SkinFormat
	}
	if *scale < 1 {
		*scale = cfg.Export.SkinScale
	}
	f, err := export.ParseSkinFormat(*format)
	exitOnError(err)

	m, err := loadModel(cfg, mgr, name, *mf.ani)
	exitOnError(err)

	path, err := export.SaveSkin(cfg.Export.OutputDir, baseName(name), m.Texture, f, *scale)
	exitOnError(err)
	fmt.Printf("Exported: %s (%dx%d, scale %d)\n", path, m.Skin.Width, m.Skin.Height, *scale)
}

func newBank(cfg *config.Config) *audio.Bank {
	bank := audio.NewBank(beep.SampleRate(cfg.Audio.OutputSampleRate))
	bank.SetMasterVolume(cfg.Audio.MasterVolume)
	return bank
}

func cmdSounds(args []string) {
	mf := newModelFlags("sounds")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	m, err := loadModel(cfg, mgr, name, *mf.ani)
	exitOnError(err)
	if len(m.Sounds) == 0 {
		fmt.Fprintln(os.Stderr, "No sounds in model")
		return
	}

	bank := newBank(cfg)
	exitOnError(bank.Load(m.Sounds))

	paths, err := export.SaveSounds(cfg.Export.OutputDir, baseName(name), m.Sounds)
	exitOnError(err)
	for i, path := range paths {
		d, _ := bank.Duration(m.Sounds[i].Slot)
		fmt.Printf("Extracted: %s (%v)\n", path, d.Round(time.Millisecond))
	}
	fmt.Fprintf(os.Stderr, "\nExtracted %d sounds\n", len(paths))
}

func cmdOBJ(args []string) {
	mf := newModelFlags("obj")
	clip := mf.fs.Int("clip", 0, "Clip index")
	frame := mf.fs.Int("frame", 0, "Frame within the clip")
	elapsed := mf.fs.Float64("time", 0, "Seconds of playback after the frame")
	pass := mf.fs.String("pass", "", "Faces to export: all, opaque or translucent (default from config)")
	bits := mf.fs.Uint("bits", 0, "Keep only faces with any of these flag bits (default from config)")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	m, err := loadModel(cfg, mgr, name, *mf.ani)
	exitOnError(err)

	clock := model.NewClock(m.Clips)
	clock.FrameDuration = float32(cfg.Playback.FrameDuration.Seconds())
	clock.Interpolate = cfg.Playback.Interpolate
	exitOnError(clock.SetClip(*clip))
	exitOnError(clock.SetFrame(*frame))
	clock.Advance(float32(*elapsed))
	p := clock.Playback()

	if *pass == "" {
		*pass = cfg.Render.Pass
	}
	if *bits == 0 {
		*bits = uint(cfg.Render.FlagMask)
	}
	filter := model.Filter{
		Pass: model.ParsePassFilter(*pass),
		Bits: formats.FaceFlags(*bits),
	}
	opts := model.BuildOptions{
		BackFaces:     cfg.Render.BackFaces,
		SmoothNormals: cfg.Render.SmoothNormals,
	}

	mesh, err := model.PoseMesh(m, p, filter, opts)
	exitOnError(err)
	if mesh == nil {
		exitOnError(fmt.Errorf("no faces left after filtering"))
	}

	base := baseName(name)
	f, err := export.ParseSkinFormat(cfg.Export.SkinFormat)
	exitOnError(err)
	skinPath, err := export.SaveSkin(cfg.Export.OutputDir, base, m.Texture, f, cfg.Export.SkinScale)
	exitOnError(err)

	path, err := export.SaveOBJ(cfg.Export.OutputDir, base, mesh, filepath.Base(skinPath))
	exitOnError(err)

	logger.Debug("mesh posed",
		zap.Int("clip", p.Clip), zap.Int("frame", p.Frame), zap.Float32("alpha", p.Alpha),
		zap.Int("groups", len(mesh.Groups)))
	fmt.Printf("Exported: %s (%d vertices, %d triangles, clip %d frame %d)\n",
		path, len(mesh.Vertices), len(mesh.Indices)/3, p.Clip, p.Frame)
}

func cmdWatch(args []string) {
	mf := newModelFlags("watch")
	name := mf.parse(args)

	cfg, mgr := setup()
	defer mgr.Close()

	show := func() {
		m, err := loadModel(cfg, mgr, name, *mf.ani)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		printInfo(os.Stdout, name, m)
		fmt.Println()
	}
	show()

	watched := []string{name, cfg.Palette.Path}
	if *mf.ani != "" {
		watched = append(watched, *mf.ani)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mgr.Watch(ctx, func(changed string) {
		for _, w := range watched {
			if strings.EqualFold(changed, filepath.Base(w)) {
				fmt.Printf("--- %s changed ---\n", changed)
				show()
				return
			}
		}
	})
	exitOnError(err)
}
