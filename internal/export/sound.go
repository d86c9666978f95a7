package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/chasm-rift/internal/logger"
	"github.com/Faultbox/chasm-rift/pkg/formats"
)

// SoundFileName names the WAV file of one sound slot, e.g. HERO_snd3.wav.
func SoundFileName(base string, slot int) string {
	return fmt.Sprintf("%s_snd%d.wav", base, slot)
}

// SaveSounds writes each clip's WAV data into dir and returns the paths in
// clip order.
func SaveSounds(dir, base string, clips []formats.SoundClip) ([]string, error) {
	if len(clips) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(clips))
	for _, c := range clips {
		path := filepath.Join(dir, SoundFileName(base, c.Slot))
		if err := os.WriteFile(path, c.WAV, 0644); err != nil {
			return paths, fmt.Errorf("writing sound %d: %w", c.Slot, err)
		}
		logger.Debug("sound exported", zap.String("path", path), zap.Int("bytes", c.Length))
		paths = append(paths, path)
	}
	return paths, nil
}
