package model

import (
	"iter"

	"github.com/Faultbox/chasm-rift/pkg/formats"
	"github.com/Faultbox/chasm-rift/pkg/math"
)

// passOrder is the draw order of mesh groups: opaque geometry first, then
// blended passes from most to least opaque.
var passOrder = []formats.FaceTrait{
	formats.TraitOpaque,
	formats.TraitHalfTranslucent,
	formats.TraitVeryTranslucent,
}

// BuildMesh collects triangles into an indexed mesh grouped by render pass.
// Degenerate triangles are dropped. Returns nil when nothing remains.
func BuildMesh(tris iter.Seq[Triangle], opts BuildOptions) *Mesh {
	var vertices []Vertex
	passIndices := make(map[formats.FaceTrait][]uint32)

	lo := math.Vec3{X: 1e10, Y: 1e10, Z: 1e10}
	hi := math.Vec3{X: -1e10, Y: -1e10, Z: -1e10}

	for tri := range tris {
		if tri.Normal == (math.Vec3{}) {
			continue
		}

		addFaceVertices := func(reverseOrder, flipNormal bool) uint32 {
			base := uint32(len(vertices))
			normal := tri.Normal
			if flipNormal {
				normal = normal.Negate()
			}
			order := [3]int{0, 1, 2}
			if reverseOrder {
				order = [3]int{2, 1, 0}
			}
			for _, k := range order {
				pos := tri.Position[k]
				lo = lo.Min(pos)
				hi = hi.Max(pos)
				vertices = append(vertices, Vertex{
					Position: pos.Array(),
					Normal:   normal.Array(),
					TexCoord: tri.UV[k],
				})
			}
			return base
		}

		base := addFaceVertices(opts.ReverseWinding, false)
		passIndices[tri.Pass] = append(passIndices[tri.Pass], base, base+1, base+2)

		twoSided := tri.Traits.Has(formats.TraitDoubleSided) || opts.ForceAllTwoSided
		if opts.BackFaces && twoSided {
			back := addFaceVertices(!opts.ReverseWinding, true)
			passIndices[tri.Pass] = append(passIndices[tri.Pass], back, back+1, back+2)
		}
	}

	if len(vertices) == 0 {
		return nil
	}

	var indices []uint32
	var groups []PassGroup
	for _, pass := range passOrder {
		idxs := passIndices[pass]
		if len(idxs) == 0 {
			continue
		}
		groups = append(groups, PassGroup{
			Pass:       pass,
			Opacity:    pass.Opacity(),
			StartIndex: int32(len(indices)),
			IndexCount: int32(len(idxs)),
		})
		indices = append(indices, idxs...)
	}

	if opts.SmoothNormals {
		SmoothNormals(vertices)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Groups:   groups,
		Bounds:   Bounds{Min: lo.Array(), Max: hi.Array()},
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(math.V3(vertices[idx].Normal))
		}
		avg := sum.Normalize()
		if avg == (math.Vec3{}) {
			continue
		}

		for _, idx := range idxs {
			vertices[idx].Normal = avg.Array()
		}
	}
}

// PoseMesh samples m at p and builds a mesh of the faces accepted by filter.
func PoseMesh(m *formats.Model, p Playback, filter Filter, opts BuildOptions) (*Mesh, error) {
	pose, err := NewSampler(m).Pose(p)
	if err != nil {
		return nil, err
	}
	return BuildMesh(Triangles(m, pose, filter), opts), nil
}
