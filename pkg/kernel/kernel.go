// Package kernel defines the abstract solid-modeling interface used to
// preview a tunnel network as a single watertight mesh, either analytically
// from the graph or from a rasterized density grid. The chunked extractor
// and every kernel share the Mesh type.
package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/graph"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(min, max v3.Vec) Solid
	Capsule(seg geom.Segment, radius float64) Solid

	// Field wraps a density grid; the solid is where density exceeds level.
	Field(g *field.Grid, level float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Mesh output. cells is the marching cubes resolution along the
	// longest axis of the solid's bounding box.
	ToMesh(s Solid, cells int) (*Mesh, error)
	WriteSTL(s Solid, cells int, path string) error
}

// Network returns the union of a capsule of radius around every accepted
// connection of g, or nil when g has no connections.
func Network(k Kernel, g *graph.Graph, radius float64) Solid {
	if g == nil {
		return nil
	}
	var out Solid
	for _, e := range g.Edges() {
		c := k.Capsule(g.Segment(e), radius)
		if out == nil {
			out = c
			continue
		}
		out = k.Union(out, c)
	}
	return out
}

// VolumeBox returns the box a grid of the given volume covers, centered on
// the origin.
func VolumeBox(k Kernel, volume v3.Vec) Solid {
	half := volume.MulScalar(0.5)
	return k.Box(half.MulScalar(-1), half)
}
