package formats

import "fmt"

// Format identifies one of the two model layouts. Neither layout carries
// a magic number, so the format is decided by matching the file length.
type Format int

const (
	FormatUnknown  Format = iota
	FormatStatic          // .3O
	FormatAnimated        // .CAR
)

// String returns the conventional file extension for the format.
func (f Format) String() string {
	switch f {
	case FormatStatic:
		return "3O"
	case FormatAnimated:
		return "CAR"
	default:
		return "unknown"
	}
}

// Layout constants shared by both formats, relative to the geometry block.
const (
	offFaces      = 0x0000
	offVertices   = 0x3200
	offVertCount  = 0x4800
	offFaceCount  = 0x4802
	offSkinSize   = 0x4804
	offSkin       = 0x4806
	geometrySize  = offSkin
	faceSize      = 32
	vertexSize    = 6
	MaxFaces      = 400
	MaxVertices   = 256
	SkinWidth     = 64
	ClipSlots     = 20
	SubModelSlots = 6
	SoundIDSlots  = 3
	SoundSlots    = 8
)

// Animated header prefix, placed before the geometry block.
const (
	offClipLengths  = 0x00
	offSubModels    = 0x28
	offSoundIDs     = 0x40
	offSoundLengths = 0x46
	offSoundVolumes = 0x56
	animatedPrefix  = 0x66
)

// base returns the offset of the geometry block.
func (f Format) base() int {
	if f == FormatAnimated {
		return animatedPrefix
	}
	return 0
}

// HeaderSize returns the number of bytes before the skin.
func (f Format) HeaderSize() int {
	return f.base() + geometrySize
}

// skinBytes converts the header's skin-size field into a byte count.
// The static layout stores rows, the animated layout stores texels.
func (f Format) skinBytes(field uint16) int {
	if f == FormatAnimated {
		return int(field)
	}
	return int(field) * SkinWidth
}

// skinHeight converts the header's skin-size field into texture rows.
func (f Format) skinHeight(field uint16) int {
	if f == FormatAnimated {
		return int(field) / SkinWidth
	}
	return int(field)
}

// uvScale converts stored UV values into texels. Animated models store
// 8.8 fixed-point texel coordinates.
func (f Format) uvScale() float32 {
	if f == FormatAnimated {
		return 1.0 / 256
	}
	return 1
}

// vOffsetScale converts the stored vertical UV offset into texels.
func (f Format) vOffsetScale() float32 {
	if f == FormatAnimated {
		return 4.0 / 256
	}
	return 1
}

// ExpectedLength computes the exact file length the header of data declares
// for format f.
func ExpectedLength(data []byte, f Format) (int, error) {
	switch f {
	case FormatStatic, FormatAnimated:
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, f)
	}

	skinField, err := u16At(data, f.base()+offSkinSize)
	if err != nil {
		return 0, err
	}
	length := f.HeaderSize() + f.skinBytes(skinField)

	if f == FormatAnimated {
		clips, err := u16Table(data, offClipLengths, ClipSlots)
		if err != nil {
			return 0, err
		}
		sounds, err := u16Table(data, offSoundLengths, SoundSlots)
		if err != nil {
			return 0, err
		}
		length += sum16(clips) + sum16(sounds)
	}
	return length, nil
}

// DetectFormat returns the first layout whose declared length equals len(data).
// When nothing matches, the buffer is reported as truncated if a layout with
// in-range counts declares more bytes than are present, or if the animated
// header is cut off and no layout declares fewer bytes. Buffers that are too
// long or inconsistent for every layout are unrecognized.
func DetectFormat(data []byte) (Format, error) {
	if len(data) < FormatStatic.HeaderSize() {
		return FormatUnknown, fmt.Errorf("%w: %d bytes is shorter than any model header", ErrTruncatedData, len(data))
	}

	var short, long, cut bool
	for _, f := range []Format{FormatStatic, FormatAnimated} {
		n, err := ExpectedLength(data, f)
		if err != nil {
			cut = true
			continue
		}
		if n == len(data) {
			return f, nil
		}
		if !countsInRange(data, f) {
			continue
		}
		if n > len(data) {
			short = true
		} else {
			long = true
		}
	}

	if short || (cut && !long) {
		return FormatUnknown, fmt.Errorf("%w: %d bytes is shorter than the declared model", ErrTruncatedData, len(data))
	}
	return FormatUnknown, fmt.Errorf("%w: no layout matches %d bytes", ErrUnrecognizedFormat, len(data))
}

// countsInRange reports whether the vertex and face counts of layout f fit
// the fixed tables.
func countsInRange(data []byte, f Format) bool {
	vc, err := u16At(data, f.base()+offVertCount)
	if err != nil {
		return false
	}
	fc, err := u16At(data, f.base()+offFaceCount)
	if err != nil {
		return false
	}
	return vc <= MaxVertices && fc <= MaxFaces
}
