// Package model poses decoded Chasm models and turns them into triangles
// and render-ready meshes.
package model

import (
	"github.com/Faultbox/chasm-rift/pkg/formats"
	"github.com/Faultbox/chasm-rift/pkg/math"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// PassGroup is a contiguous index range drawn with one blend state.
type PassGroup struct {
	Pass       formats.FaceTrait
	Opacity    float32
	StartIndex int32
	IndexCount int32
}

// Mesh holds the complete model mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []PassGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return math.V3(b.Min).Lerp(math.V3(b.Max), 0.5).Array()
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// ReverseWinding reverses triangle winding order.
	ReverseWinding bool
	// BackFaces emits a reversed copy of double-sided faces.
	BackFaces bool
	// ForceAllTwoSided treats all faces as double-sided.
	ForceAllTwoSided bool
	// SmoothNormals averages normals at shared positions.
	SmoothNormals bool
}
