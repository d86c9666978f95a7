package formats

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ParseANI decodes a companion .ANI frame file for a static model with
// vertexCount vertices. Some files begin with a copy of the vertex count,
// which is skipped.
func ParseANI(data []byte, vertexCount int) ([][]Vertex, error) {
	if vertexCount <= 0 {
		return nil, fmt.Errorf("%w: ANI needs a positive vertex count", ErrMisalignedFrameData)
	}

	off := 0
	if len(data) >= 2 && int(binary.LittleEndian.Uint16(data)) == vertexCount {
		off = 2
	}

	frames, err := splitFrames(data[off:], vertexCount)
	if err != nil {
		return nil, fmt.Errorf("parsing ANI: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: ANI holds no frames", ErrTruncatedData)
	}
	return frames, nil
}

// ParseANIFile reads a .ANI file from disk.
func ParseANIFile(path string, vertexCount int) ([][]Vertex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ANI file: %w", err)
	}
	return ParseANI(data, vertexCount)
}

// WithAnimation returns a copy of m whose frames are replaced by frames and
// played as one implicit clip. The center stays that of the base pose.
func (m *Model) WithAnimation(frames [][]Vertex) (*Model, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrTruncatedData)
	}
	for i, f := range frames {
		if len(f) != m.VertexCount {
			return nil, fmt.Errorf("%w: frame %d has %d vertices, model has %d",
				ErrMisalignedFrameData, i, len(f), m.VertexCount)
		}
	}

	out := *m
	out.Frames = frames
	out.Clips = []AnimationClip{{Slot: -1, Start: 0, Count: len(frames)}}
	return &out, nil
}
