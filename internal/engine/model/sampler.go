package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/chasm-rift/pkg/formats"
	"github.com/Faultbox/chasm-rift/pkg/math"
)

// Sampler errors.
var (
	ErrClipOutOfRange  = errors.New("clip index out of range")
	ErrFrameOutOfRange = errors.New("frame index out of range")
)

// Playback selects a point in a clip: a frame within the clip and the
// blend factor toward the next frame.
type Playback struct {
	Clip  int
	Frame int
	Alpha float32
}

// Pose is one blended position per vertex in world units.
type Pose []math.Vec3

// Sampler blends vertex frames of a model.
type Sampler struct {
	model *formats.Model
}

// NewSampler creates a sampler for m.
func NewSampler(m *formats.Model) *Sampler {
	return &Sampler{model: m}
}

// Model returns the sampled model.
func (s *Sampler) Model() *formats.Model {
	return s.model
}

// Frames resolves p to absolute frame indices and a clamped blend factor.
// The second frame wraps to the start of the clip.
func (s *Sampler) Frames(p Playback) (f0, f1 int, alpha float32, err error) {
	if p.Clip < 0 || p.Clip >= len(s.model.Clips) {
		return 0, 0, 0, fmt.Errorf("%w: clip %d of %d", ErrClipOutOfRange, p.Clip, len(s.model.Clips))
	}
	clip := s.model.Clips[p.Clip]
	if p.Frame < 0 || p.Frame >= clip.Count {
		return 0, 0, 0, fmt.Errorf("%w: frame %d of %d in clip %d", ErrFrameOutOfRange, p.Frame, clip.Count, p.Clip)
	}

	f0 = clip.Start + p.Frame
	f1 = clip.Start + (p.Frame+1)%clip.Count
	if f1 >= len(s.model.Frames) {
		return 0, 0, 0, fmt.Errorf("%w: frame %d of %d", ErrFrameOutOfRange, f1, len(s.model.Frames))
	}
	return f0, f1, math.Clamp(p.Alpha, 0, 1), nil
}

// Position returns the blended fixed-point position of vertex i.
func (s *Sampler) Position(p Playback, i int) (math.Vec3, error) {
	f0, f1, alpha, err := s.Frames(p)
	if err != nil {
		return math.Vec3{}, err
	}
	if i < 0 || i >= s.model.VertexCount {
		return math.Vec3{}, fmt.Errorf("%w: vertex %d of %d", formats.ErrIndexOutOfRange, i, s.model.VertexCount)
	}
	return blend(s.model.Frames[f0][i], s.model.Frames[f1][i], alpha), nil
}

// Pose returns every vertex blended, recentered on the model center and
// scaled to world units.
func (s *Sampler) Pose(p Playback) (Pose, error) {
	f0, f1, alpha, err := s.Frames(p)
	if err != nil {
		return nil, err
	}

	center := math.V3(s.model.Center)
	a, b := s.model.Frames[f0], s.model.Frames[f1]
	pose := make(Pose, s.model.VertexCount)
	for i := range pose {
		pose[i] = blend(a[i], b[i], alpha).Sub(center).Scale(formats.VertexScale)
	}
	return pose, nil
}

func blend(a, b formats.Vertex, alpha float32) math.Vec3 {
	va := math.Vec3{X: float32(a.X), Y: float32(a.Y), Z: float32(a.Z)}
	vb := math.Vec3{X: float32(b.X), Y: float32(b.Y), Z: float32(b.Z)}
	return va.Lerp(vb, alpha)
}
