package model

import (
	"fmt"

	"github.com/Faultbox/chasm-rift/pkg/formats"
	"github.com/Faultbox/chasm-rift/pkg/math"
)

// DefaultFrameDuration is the playback time of one frame in seconds.
const DefaultFrameDuration = 0.1

// Clock advances playback through the clips of a model. It holds no
// timers; the caller feeds elapsed time with Advance.
type Clock struct {
	FrameDuration float32 // Seconds per frame
	Interpolate   bool    // Report a blend factor between frames
	Playing       bool

	clips []formats.AnimationClip
	clip  int
	frame int
	acc   float32
}

// NewClock creates a playing clock over clips, starting at clip 0.
func NewClock(clips []formats.AnimationClip) *Clock {
	return &Clock{
		FrameDuration: DefaultFrameDuration,
		Interpolate:   true,
		Playing:       true,
		clips:         clips,
	}
}

// Clip returns the active clip index.
func (c *Clock) Clip() int { return c.clip }

// Frame returns the frame index within the active clip.
func (c *Clock) Frame() int { return c.frame }

func (c *Clock) count() int {
	if c.clip >= len(c.clips) {
		return 0
	}
	return c.clips[c.clip].Count
}

// Advance adds dt seconds. Whole frame durations move the frame forward,
// wrapping within the clip. Clips with fewer than two frames do not move.
func (c *Clock) Advance(dt float32) {
	n := c.count()
	if !c.Playing || n < 2 || c.FrameDuration <= 0 {
		return
	}
	c.acc += dt
	for c.acc >= c.FrameDuration {
		c.acc -= c.FrameDuration
		c.frame = (c.frame + 1) % n
	}
}

// Step moves delta frames, wrapping in both directions, and resets the
// accumulated time.
func (c *Clock) Step(delta int) {
	n := c.count()
	if n == 0 {
		return
	}
	c.frame = math.Wrap(c.frame+delta, n)
	c.acc = 0
}

// SetClip activates clip i from its first frame.
func (c *Clock) SetClip(i int) error {
	if i < 0 || i >= len(c.clips) {
		return fmt.Errorf("%w: clip %d of %d", ErrClipOutOfRange, i, len(c.clips))
	}
	c.clip = i
	c.frame = 0
	c.acc = 0
	return nil
}

// SetFrame moves to frame i of the active clip and resets the accumulated
// time. Frames outside the clip are rejected rather than wrapped.
func (c *Clock) SetFrame(i int) error {
	if n := c.count(); i < 0 || i >= n {
		return fmt.Errorf("%w: frame %d of %d in clip %d", ErrFrameOutOfRange, i, n, c.clip)
	}
	c.frame = i
	c.acc = 0
	return nil
}

// Toggle pauses or resumes playback.
func (c *Clock) Toggle() {
	c.Playing = !c.Playing
}

// Playback returns the current sampling position. The blend factor is zero
// when paused or when interpolation is off.
func (c *Clock) Playback() Playback {
	p := Playback{Clip: c.clip, Frame: c.frame}
	if c.Playing && c.Interpolate && c.FrameDuration > 0 && c.count() > 1 {
		p.Alpha = math.Clamp(c.acc/c.FrameDuration, 0, 1)
	}
	return p
}
