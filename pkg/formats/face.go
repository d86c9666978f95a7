package formats

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// FaceFlags is the raw 8-bit flag byte of a face.
type FaceFlags uint8

// Face flag bits.
const (
	FlagDoubleSided     FaceFlags = 1 << 0
	FlagAlphaTested     FaceFlags = 1 << 1
	FlagVeryTranslucent FaceFlags = 1 << 2 // 20% opacity
	FlagHalfTranslucent FaceFlags = 1 << 3 // 60% opacity
	FlagReserved        FaceFlags = 1 << 4
	FlagInvisible       FaceFlags = 0xE0 // any of bits 5-7
)

// FaceTrait is one rendering property derived from the flag byte.
type FaceTrait uint8

const (
	TraitOpaque FaceTrait = iota
	TraitVeryTranslucent
	TraitHalfTranslucent
	TraitInvisible
	TraitDoubleSided
	TraitAlphaTested
)

// String returns a human-readable trait name.
func (t FaceTrait) String() string {
	switch t {
	case TraitOpaque:
		return "Opaque"
	case TraitVeryTranslucent:
		return "VeryTranslucent"
	case TraitHalfTranslucent:
		return "HalfTranslucent"
	case TraitInvisible:
		return "Invisible"
	case TraitDoubleSided:
		return "DoubleSided"
	case TraitAlphaTested:
		return "AlphaTested"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Opacity returns the blend factor for a render pass trait.
func (t FaceTrait) Opacity() float32 {
	switch t {
	case TraitVeryTranslucent:
		return 0.2
	case TraitHalfTranslucent:
		return 0.6
	case TraitInvisible:
		return 0
	default:
		return 1
	}
}

// FaceTraits is the set of traits of one face.
type FaceTraits uint8

// Has reports whether trait t is in the set.
func (s FaceTraits) Has(t FaceTrait) bool {
	return s&(1<<t) != 0
}

// Pass returns the render pass of the face: Invisible, VeryTranslucent,
// HalfTranslucent or Opaque, in that order of precedence.
func (s FaceTraits) Pass() FaceTrait {
	for _, t := range []FaceTrait{TraitInvisible, TraitVeryTranslucent, TraitHalfTranslucent} {
		if s.Has(t) {
			return t
		}
	}
	return TraitOpaque
}

// IsTranslucent reports whether the face is drawn in the blended pass.
func (s FaceTraits) IsTranslucent() bool {
	return s.Has(TraitVeryTranslucent) || s.Has(TraitHalfTranslucent)
}

// String lists the traits, e.g. "HalfTranslucent|DoubleSided".
func (s FaceTraits) String() string {
	var names []string
	for t := TraitOpaque; t <= TraitAlphaTested; t++ {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, "|")
}

// ClassifyFlags derives the trait set from a raw flag byte.
func ClassifyFlags(f FaceFlags) FaceTraits {
	var s FaceTraits
	add := func(t FaceTrait) { s |= 1 << t }

	if f&FlagVeryTranslucent != 0 {
		add(TraitVeryTranslucent)
	}
	if f&FlagHalfTranslucent != 0 {
		add(TraitHalfTranslucent)
	}
	if f&(FlagVeryTranslucent|FlagHalfTranslucent) == 0 {
		add(TraitOpaque)
	}
	if f&FlagInvisible != 0 {
		add(TraitInvisible)
	}
	if f&FlagDoubleSided != 0 {
		add(TraitDoubleSided)
	}
	if f&FlagAlphaTested != 0 {
		add(TraitAlphaTested)
	}
	return s
}

// Face is a triangle or quad of the model.
type Face struct {
	Indices [4]uint16    // Vertex indices; Indices[3] >= vertex count marks a triangle
	UV      [4][2]uint16 // Stored texture coordinates per slot
	Next    uint16       // Link fields (unused by rendering)
	Distant uint16
	Group   uint8
	Flags   FaceFlags
	VOffset int16 // Added to every V coordinate
	Traits  FaceTraits
}

// IsQuad reports whether the face uses all four slots.
func (f *Face) IsQuad(vertexCount int) bool {
	return int(f.Indices[3]) < vertexCount
}

// parseFace decodes the 32-byte face record at off.
func parseFace(data []byte, off int) (Face, error) {
	b, err := span(data, off, faceSize)
	if err != nil {
		return Face{}, err
	}

	var f Face
	for i := 0; i < 4; i++ {
		f.Indices[i] = binary.LittleEndian.Uint16(b[i*2:])
		f.UV[i][0] = binary.LittleEndian.Uint16(b[8+i*4:])
		f.UV[i][1] = binary.LittleEndian.Uint16(b[10+i*4:])
	}
	f.Next = binary.LittleEndian.Uint16(b[24:])
	f.Distant = binary.LittleEndian.Uint16(b[26:])
	f.Group = b[28]
	f.Flags = FaceFlags(b[29])
	f.VOffset = int16(binary.LittleEndian.Uint16(b[30:]))
	f.Traits = ClassifyFlags(f.Flags)
	return f, nil
}

// validate checks that the face only references existing vertices.
func (f *Face) validate(vertexCount int) error {
	for slot := 0; slot < 3; slot++ {
		if int(f.Indices[slot]) >= vertexCount {
			return fmt.Errorf("%w: slot %d index %d, vertex count %d",
				ErrIndexOutOfRange, slot, f.Indices[slot], vertexCount)
		}
	}
	return nil
}
