package formats

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
)

// VertexScale converts fixed-point vertex coordinates to world units.
const VertexScale = 1.0 / 2048

// Vertex is a fixed-point vertex position.
type Vertex struct {
	X, Y, Z int16
}

// World returns the position in world units.
func (v Vertex) World() [3]float32 {
	return [3]float32{
		float32(v.X) * VertexScale,
		float32(v.Y) * VertexScale,
		float32(v.Z) * VertexScale,
	}
}

// AnimationClip is a contiguous range of frames.
type AnimationClip struct {
	Slot  int // Header slot (0-19), -1 for the implicit clip
	Start int // First frame
	Count int // Number of frames
}

// End returns one past the last frame of the clip.
func (c AnimationClip) End() int {
	return c.Start + c.Count
}

// AnimatedHeader holds the tables that precede the geometry block of an
// animated model.
type AnimatedHeader struct {
	ClipLengths   [ClipSlots]uint16        // Frame bytes per clip slot
	SubModelClips [SubModelSlots][2]uint16 // Reserved; read but not turned into clips
	SoundIDs      [SoundIDSlots]uint16     // Reserved sound routing ids
	SoundLengths  [SoundSlots]uint16       // PCM bytes per sound slot
	SoundVolumes  [SoundSlots]uint16       // Parsed, not applied
}

// Model is a decoded .3O or .CAR model.
type Model struct {
	Format      Format
	Palette     *Palette
	VertexCount int
	Faces       []Face
	Frames      [][]Vertex // Frames[0] is the base pose
	Skin        Skin
	Texture     *image.NRGBA
	Background  uint8 // Suggested background palette index
	Clips       []AnimationClip
	Sounds      []SoundClip
	Header      *AnimatedHeader // nil for static models
	Center      [3]float32      // Midpoint of frame 0 extrema, fixed-point units
}

// ParseModel detects the format of data and decodes it.
func ParseModel(data []byte, pal *Palette) (*Model, error) {
	if pal == nil {
		return nil, ErrNoPalette
	}
	f, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	return DecodeModel(data, f, pal)
}

// ParseModelFile reads and decodes a model from disk.
func ParseModelFile(path string, pal *Palette) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return ParseModel(data, pal)
}

// DecodeModel decodes data using the given layout. Every read is bounds
// checked; on failure no model is returned.
func DecodeModel(data []byte, f Format, pal *Palette) (*Model, error) {
	if pal == nil {
		return nil, ErrNoPalette
	}
	if f != FormatStatic && f != FormatAnimated {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, f)
	}
	base := f.base()

	vertexCount, err := u16At(data, base+offVertCount)
	if err != nil {
		return nil, fmt.Errorf("reading vertex count: %w", err)
	}
	faceCount, err := u16At(data, base+offFaceCount)
	if err != nil {
		return nil, fmt.Errorf("reading face count: %w", err)
	}
	skinField, err := u16At(data, base+offSkinSize)
	if err != nil {
		return nil, fmt.Errorf("reading skin size: %w", err)
	}
	if vertexCount > MaxVertices {
		return nil, fmt.Errorf("%w: vertex count %d exceeds %d", ErrTruncatedData, vertexCount, MaxVertices)
	}
	if faceCount > MaxFaces {
		return nil, fmt.Errorf("%w: face count %d exceeds %d", ErrTruncatedData, faceCount, MaxFaces)
	}

	m := &Model{
		Format:      f,
		Palette:     pal,
		VertexCount: int(vertexCount),
	}

	// Faces
	m.Faces = make([]Face, faceCount)
	for i := range m.Faces {
		face, err := parseFace(data, base+offFaces+i*faceSize)
		if err != nil {
			return nil, fmt.Errorf("parsing face %d: %w", i, err)
		}
		if err := face.validate(m.VertexCount); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		m.Faces[i] = face
	}

	baseVerts, err := readVertices(data, base+offVertices, m.VertexCount)
	if err != nil {
		return nil, fmt.Errorf("reading base vertices: %w", err)
	}

	// Skin
	skinOff := f.HeaderSize()
	skinLen := f.skinBytes(skinField)
	raw, err := span(data, skinOff, skinLen)
	if err != nil {
		return nil, fmt.Errorf("reading skin: %w", err)
	}
	height := f.skinHeight(skinField)
	m.Skin = Skin{
		Width:   SkinWidth,
		Height:  height,
		Indices: append([]byte(nil), raw[:height*SkinWidth]...),
	}

	m.Frames = [][]Vertex{baseVerts}
	m.Clips = []AnimationClip{{Slot: -1, Start: 0, Count: 1}}

	if f == FormatAnimated {
		if err := m.decodeAnimated(data, skinOff+skinLen); err != nil {
			return nil, err
		}
	}

	m.Center = frameCenter(m.Frames[0])
	m.Texture = ConvertSkin(m.Skin.Indices, m.Skin.Width, m.Skin.Height, pal)
	m.Background = DominantBackground(m.Skin.Indices, pal)

	return m, nil
}

// decodeAnimated reads the clip and sound tables, the frame data that
// starts at frameOff and the trailing sound region.
func (m *Model) decodeAnimated(data []byte, frameOff int) error {
	hdr, err := parseAnimatedHeader(data)
	if err != nil {
		return fmt.Errorf("reading animation header: %w", err)
	}
	m.Header = hdr

	frameBytes := sum16(hdr.ClipLengths[:])
	raw, err := span(data, frameOff, frameBytes)
	if err != nil {
		return fmt.Errorf("reading frame data: %w", err)
	}

	if frameBytes > 0 {
		frames, err := splitFrames(raw, m.VertexCount)
		if err != nil {
			return err
		}
		m.Frames = frames
		clips, err := buildClips(hdr.ClipLengths[:], m.VertexCount, len(frames))
		if err != nil {
			return err
		}
		m.Clips = clips
	}

	soundBytes := sum16(hdr.SoundLengths[:])
	if soundBytes <= len(data)-(frameOff+frameBytes) {
		m.Sounds = ExtractSounds(data[len(data)-soundBytes:], hdr.SoundLengths[:])
		for i := range m.Sounds {
			m.Sounds[i].Volume = hdr.SoundVolumes[m.Sounds[i].Slot]
		}
	}
	return nil
}

func parseAnimatedHeader(data []byte) (*AnimatedHeader, error) {
	b, err := span(data, 0, animatedPrefix)
	if err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	hdr := &AnimatedHeader{}
	for i := range hdr.ClipLengths {
		hdr.ClipLengths[i] = le.Uint16(b[offClipLengths+i*2:])
	}
	for i := range hdr.SubModelClips {
		hdr.SubModelClips[i][0] = le.Uint16(b[offSubModels+i*4:])
		hdr.SubModelClips[i][1] = le.Uint16(b[offSubModels+i*4+2:])
	}
	for i := range hdr.SoundIDs {
		hdr.SoundIDs[i] = le.Uint16(b[offSoundIDs+i*2:])
	}
	for i := range hdr.SoundLengths {
		hdr.SoundLengths[i] = le.Uint16(b[offSoundLengths+i*2:])
		hdr.SoundVolumes[i] = le.Uint16(b[offSoundVolumes+i*2:])
	}
	return hdr, nil
}

// splitFrames cuts raw into frames of vertexCount vertices.
func splitFrames(raw []byte, vertexCount int) ([][]Vertex, error) {
	frameSize := vertexCount * vertexSize
	if frameSize == 0 {
		if len(raw) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %d bytes of frames for 0 vertices", ErrMisalignedFrameData, len(raw))
	}
	if len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes, frame size %d", ErrMisalignedFrameData, len(raw), frameSize)
	}

	frames := make([][]Vertex, len(raw)/frameSize)
	for i := range frames {
		verts, err := readVertices(raw, i*frameSize, vertexCount)
		if err != nil {
			return nil, err
		}
		frames[i] = verts
	}
	return frames, nil
}

// buildClips walks the clip slots in order. Each nonzero slot becomes a clip
// starting at the running frame offset. With no declared clips a single
// implicit clip covers all frames.
func buildClips(lengths []uint16, vertexCount, frameCount int) ([]AnimationClip, error) {
	frameSize := vertexCount * vertexSize

	var clips []AnimationClip
	start := 0
	for slot, n := range lengths {
		if n == 0 {
			continue
		}
		if frameSize == 0 || int(n)%frameSize != 0 {
			return nil, fmt.Errorf("%w: clip %d has %d bytes, frame size %d",
				ErrMisalignedFrameData, slot, n, frameSize)
		}
		count := int(n) / frameSize
		clips = append(clips, AnimationClip{Slot: slot, Start: start, Count: count})
		start += count
	}

	if len(clips) == 0 {
		clips = append(clips, AnimationClip{Slot: -1, Start: 0, Count: frameCount})
	}
	return clips, nil
}

func readVertices(data []byte, off, count int) ([]Vertex, error) {
	b, err := span(data, off, count*vertexSize)
	if err != nil {
		return nil, err
	}
	verts := make([]Vertex, count)
	for i := range verts {
		o := i * vertexSize
		verts[i] = Vertex{
			X: int16(binary.LittleEndian.Uint16(b[o:])),
			Y: int16(binary.LittleEndian.Uint16(b[o+2:])),
			Z: int16(binary.LittleEndian.Uint16(b[o+4:])),
		}
	}
	return verts, nil
}

// frameCenter returns the midpoint of the per-axis extrema of verts.
func frameCenter(verts []Vertex) [3]float32 {
	if len(verts) == 0 {
		return [3]float32{}
	}
	lo := [3]int{math.MaxInt16, math.MaxInt16, math.MaxInt16}
	hi := [3]int{math.MinInt16, math.MinInt16, math.MinInt16}
	for _, v := range verts {
		for axis, c := range [3]int{int(v.X), int(v.Y), int(v.Z)} {
			lo[axis] = min(lo[axis], c)
			hi[axis] = max(hi[axis], c)
		}
	}
	return [3]float32{
		float32(lo[0]+hi[0]) * 0.5,
		float32(lo[1]+hi[1]) * 0.5,
		float32(lo[2]+hi[2]) * 0.5,
	}
}

// FrameCount returns the number of vertex frames.
func (m *Model) FrameCount() int {
	return len(m.Frames)
}

// TexelUV returns the texel-space coordinate of a face slot with the
// vertical offset applied. The result is not clamped.
func (m *Model) TexelUV(f *Face, slot int) (u, v float32) {
	s := m.Format.uvScale()
	u = float32(f.UV[slot][0]) * s
	v = float32(f.UV[slot][1])*s + float32(f.VOffset)*m.Format.vOffsetScale()
	return u, v
}

// FlagCounts returns how many faces have each flag bit set.
func (m *Model) FlagCounts() [8]int {
	var counts [8]int
	for i := range m.Faces {
		for bit := 0; bit < 8; bit++ {
			if m.Faces[i].Flags&(1<<bit) != 0 {
				counts[bit]++
			}
		}
	}
	return counts
}
