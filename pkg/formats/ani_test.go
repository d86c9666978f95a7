package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func buildANI(vertexCount int, withCount bool, frames int) []byte {
	var buf bytes.Buffer
	if withCount {
		binary.Write(&buf, binary.LittleEndian, uint16(vertexCount))
	}
	for f := 0; f < frames; f++ {
		for v := 0; v < vertexCount; v++ {
			c := int16(f*100 + v)
			binary.Write(&buf, binary.LittleEndian, Vertex{X: c, Y: -c, Z: 1})
		}
	}
	return buf.Bytes()
}

func TestParseANI(t *testing.T) {
	frames, err := ParseANI(buildANI(4, false, 3), 4)
	if err != nil {
		t.Fatalf("ParseANI: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[2][3] != (Vertex{X: 203, Y: -203, Z: 1}) {
		t.Errorf("unexpected vertex %+v", frames[2][3])
	}
}

func TestParseANI_LeadingCount(t *testing.T) {
	frames, err := ParseANI(buildANI(5, true, 2), 5)
	if err != nil {
		t.Fatalf("ParseANI: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0][0].X != 0 || frames[1][4].X != 104 {
		t.Errorf("count prefix not skipped: %+v", frames)
	}
}

func TestParseANI_Errors(t *testing.T) {
	if _, err := ParseANI(buildANI(4, false, 1)[:20], 4); !errors.Is(err, ErrMisalignedFrameData) {
		t.Errorf("expected ErrMisalignedFrameData, got %v", err)
	}
	if _, err := ParseANI(nil, 4); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData for empty file, got %v", err)
	}
	if _, err := ParseANI(buildANI(4, false, 1), 0); err == nil {
		t.Error("expected error for zero vertex count")
	}
}

func TestModel_WithAnimation(t *testing.T) {
	m, err := ParseModel(buildModel(staticFixture()), testPalette())
	if err != nil {
		t.Fatalf("ParseModel: %v", err)
	}
	frames, err := ParseANI(buildANI(m.VertexCount, false, 6), m.VertexCount)
	if err != nil {
		t.Fatalf("ParseANI: %v", err)
	}

	anim, err := m.WithAnimation(frames)
	if err != nil {
		t.Fatalf("WithAnimation: %v", err)
	}
	if anim.FrameCount() != 6 {
		t.Errorf("expected 6 frames, got %d", anim.FrameCount())
	}
	if len(anim.Clips) != 1 || anim.Clips[0].Count != 6 {
		t.Errorf("unexpected clips %+v", anim.Clips)
	}
	if anim.Center != m.Center {
		t.Error("center should stay that of the base pose")
	}
	if m.FrameCount() != 1 {
		t.Error("original model must not be modified")
	}

	if _, err := m.WithAnimation([][]Vertex{{{}}}); !errors.Is(err, ErrMisalignedFrameData) {
		t.Errorf("expected ErrMisalignedFrameData for wrong vertex count, got %v", err)
	}
}
