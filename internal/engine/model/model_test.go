package model

import (
	"github.com/Faultbox/chasm-rift/pkg/formats"
)

// newFace builds a face with traits derived from flags.
func newFace(indices [4]uint16, flags formats.FaceFlags) formats.Face {
	return formats.Face{
		Indices: indices,
		UV:      [4][2]uint16{{0, 0}, {32, 0}, {32, 3}, {0, 3}},
		Flags:   flags,
		Traits:  formats.ClassifyFlags(flags),
	}
}

// testModel returns a four-vertex model with two clips over three frames.
// Frame k places every vertex at a base offset plus 100*k on X.
func testModel() *formats.Model {
	base := []formats.Vertex{
		{X: 0, Y: 0, Z: 0},
		{X: 2048, Y: 0, Z: 0},
		{X: 2048, Y: 2048, Z: 0},
		{X: 0, Y: 2048, Z: 0},
	}
	frames := make([][]formats.Vertex, 3)
	for k := range frames {
		frames[k] = make([]formats.Vertex, len(base))
		for i, v := range base {
			v.X += int16(100 * k)
			frames[k][i] = v
		}
	}

	return &formats.Model{
		Format:      formats.FormatStatic,
		VertexCount: 4,
		Faces: []formats.Face{
			newFace([4]uint16{0, 1, 2, 3}, 0),                             // opaque quad
			newFace([4]uint16{0, 1, 2, 4}, formats.FlagHalfTranslucent),   // translucent triangle
			newFace([4]uint16{0, 2, 3, 4}, 0x20),                          // invisible
			newFace([4]uint16{0, 2, 3, 4}, formats.FlagVeryTranslucent|1), // very translucent, double sided
			newFace([4]uint16{0, 1, 2, 3}, 0x44),                          // invisible with very translucent
			newFace([4]uint16{0, 1, 2, 4}, 0x88),                          // invisible with half translucent
		},
		Frames: frames,
		Skin:   formats.Skin{Width: formats.SkinWidth, Height: 4},
		Clips: []formats.AnimationClip{
			{Slot: 0, Start: 0, Count: 2},
			{Slot: 5, Start: 2, Count: 1},
		},
		Center: [3]float32{1024, 1024, 0},
	}
}
