package model

import (
	"iter"

	"github.com/Faultbox/chasm-rift/pkg/formats"
	"github.com/Faultbox/chasm-rift/pkg/math"
)

// PassFilter selects faces by render pass.
type PassFilter int

const (
	PassAll PassFilter = iota
	PassOpaque
	PassTranslucent
)

// ParsePassFilter maps a config value to a PassFilter.
func ParsePassFilter(s string) PassFilter {
	switch s {
	case "opaque":
		return PassOpaque
	case "translucent":
		return PassTranslucent
	default:
		return PassAll
	}
}

// Filter restricts which faces are triangulated.
type Filter struct {
	Pass PassFilter
	// Bits, when nonzero, keeps only faces with at least one of these flag bits.
	Bits formats.FaceFlags
}

func (f Filter) accepts(face *formats.Face) bool {
	if f.Bits != 0 && face.Flags&f.Bits == 0 {
		return false
	}
	switch f.Pass {
	case PassOpaque:
		return !face.Traits.IsTranslucent()
	case PassTranslucent:
		return face.Traits.IsTranslucent()
	}
	return true
}

// Triangle is one emitted triangle of a posed model.
type Triangle struct {
	Face     int // Source face index
	Position [3]math.Vec3
	UV       [3][2]float32
	Normal   math.Vec3
	Pass     formats.FaceTrait
	Opacity  float32
	Traits   formats.FaceTraits
}

var (
	triSlots  = [3]int{0, 1, 2}
	quadSlots = [3]int{2, 3, 0}
)

// Triangles yields the triangles of m at pose. Quads yield a second
// triangle over slots 2, 3, 0. Invisible faces are never yielded.
// The sequence may be ranged over any number of times.
func Triangles(m *formats.Model, pose Pose, filter Filter) iter.Seq[Triangle] {
	return func(yield func(Triangle) bool) {
		if len(pose) < m.VertexCount {
			return
		}
		for i := range m.Faces {
			face := &m.Faces[i]
			pass := face.Traits.Pass()
			if pass == formats.TraitInvisible || !filter.accepts(face) {
				continue
			}
			if !yield(triangle(m, pose, i, triSlots)) {
				return
			}
			if face.IsQuad(m.VertexCount) {
				if !yield(triangle(m, pose, i, quadSlots)) {
					return
				}
			}
		}
	}
}

func triangle(m *formats.Model, pose Pose, faceIdx int, slots [3]int) Triangle {
	face := &m.Faces[faceIdx]
	pass := face.Traits.Pass()
	t := Triangle{
		Face:    faceIdx,
		Pass:    pass,
		Opacity: pass.Opacity(),
		Traits:  face.Traits,
	}
	for k, s := range slots {
		t.Position[k] = pose[face.Indices[s]]
		t.UV[k] = faceUV(m, face, s)
	}
	t.Normal = faceNormal(t.Position)
	return t
}

// faceNormal works on edges scaled back to fixed-point units so faces a few
// units across keep a normal.
func faceNormal(p [3]math.Vec3) math.Vec3 {
	const toFixed = 1 / formats.VertexScale
	e1 := p[1].Sub(p[0]).Scale(toFixed)
	e2 := p[2].Sub(p[0]).Scale(toFixed)
	return e1.Cross(e2).Normalize()
}

// faceUV normalizes a texel coordinate: u by the skin width, v clamped to
// the skin rows and divided by the skin height.
func faceUV(m *formats.Model, face *formats.Face, slot int) [2]float32 {
	u, v := m.TexelUV(face, slot)
	h := float32(m.Skin.Height)
	if h <= 0 {
		return [2]float32{u / formats.SkinWidth, 0}
	}
	return [2]float32{u / formats.SkinWidth, math.Clamp(v, 0, h-1) / h}
}
