package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
//
// Chunk meshes carry their chunk index and world-space origin; vertices are
// relative to Origin. A mesh with no vertices is an explicitly empty chunk,
// as opposed to a nil *Mesh, which means the chunk was never generated.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Chunk    int       `json:"chunk"`    // chunk index, -1 for whole-volume meshes
	Origin   v3.Vec    `json:"origin"`   // world offset of vertex coordinates
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i in world space.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3]) + m.Origin.X,
		Y: float64(m.Vertices[i*3+1]) + m.Origin.Y,
		Z: float64(m.Vertices[i*3+2]) + m.Origin.Z,
	}
}

// Normal returns the unit normal of vertex i.
func (m *Mesh) Normal(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Normals[i*3]),
		Y: float64(m.Normals[i*3+1]),
		Z: float64(m.Normals[i*3+2]),
	}
}

// Bounds returns the world-space bounding box of the vertices. ok is false
// for an empty mesh.
func (m *Mesh) Bounds() (lo, hi v3.Vec, ok bool) {
	if m.IsEmpty() {
		return v3.Vec{}, v3.Vec{}, false
	}
	lo, hi = m.Vertex(0), m.Vertex(0)
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi, true
}
