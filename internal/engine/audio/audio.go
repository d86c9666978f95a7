// Package audio decodes the sounds embedded in animated models into
// in-memory buffers and hands out streamers for an external mixer or
// output device.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/chasm-rift/internal/logger"
	"github.com/Faultbox/chasm-rift/pkg/formats"
	chmath "github.com/Faultbox/chasm-rift/pkg/math"
)

// DefaultSampleRate is the default output sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNoSound is returned for a slot without a loaded sound.
var ErrNoSound = errors.New("no sound in slot")

// Bank holds the decoded sounds of one model, keyed by header slot.
type Bank struct {
	mu sync.RWMutex

	sampleRate   beep.SampleRate
	masterVolume float64
	buffers      map[int]*beep.Buffer
}

// NewBank creates an empty bank producing streams at rate.
func NewBank(rate beep.SampleRate) *Bank {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Bank{
		sampleRate:   rate,
		masterVolume: 1.0,
		buffers:      make(map[int]*beep.Buffer),
	}
}

// Load decodes every clip's WAV data into memory, replacing any sound
// previously stored in the same slot.
func (b *Bank) Load(clips []formats.SoundClip) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range clips {
		buf, err := decode(c.WAV)
		if err != nil {
			return fmt.Errorf("sound slot %d: %w", c.Slot, err)
		}
		b.buffers[c.Slot] = buf
		logger.Debug("sound loaded",
			zap.Int("slot", c.Slot),
			zap.Int("samples", buf.Len()),
			zap.Duration("duration", buf.Format().SampleRate.D(buf.Len())))
	}
	return nil
}

func decode(data []byte) (*beep.Buffer, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return buf, nil
}

// Slots returns the loaded slots in ascending order.
func (b *Bank) Slots() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	slots := make([]int, 0, len(b.buffers))
	for s := range b.buffers {
		slots = append(slots, s)
	}
	slices.Sort(slots)
	return slots
}

// Duration returns the playback length of a slot.
func (b *Bank) Duration(slot int) (time.Duration, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[slot]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoSound, slot)
	}
	return buf.Format().SampleRate.D(buf.Len()), nil
}

// SampleRate returns the output sample rate.
func (b *Bank) SampleRate() beep.SampleRate {
	return b.sampleRate
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (b *Bank) SetMasterVolume(vol float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.masterVolume = chmath.Clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (b *Bank) MasterVolume() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.masterVolume
}

// Streamer returns a new stream of slot at the output rate with the master
// volume applied. Streams are independent and may play concurrently.
func (b *Bank) Streamer(slot int) (beep.Streamer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSound, slot)
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate := buf.Format().SampleRate; rate != b.sampleRate {
		s = beep.Resample(4, rate, b.sampleRate, s)
	}

	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(b.masterVolume),
		Silent:   b.masterVolume <= 0,
	}, nil
}

// Sequence returns one stream playing every loaded slot in order.
func (b *Bank) Sequence() (beep.Streamer, error) {
	var streams []beep.Streamer
	for _, slot := range b.Slots() {
		s, err := b.Streamer(slot)
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return beep.Seq(streams...), nil
}

// volumeToDb converts a 0-1 volume to decibel scale.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * math.Log10(vol)
}
