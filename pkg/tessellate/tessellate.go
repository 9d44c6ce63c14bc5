// Package tessellate extracts triangle meshes from a density grid using
// Marching Cubes. One mesh is produced per chunk. Each chunk is meshed with
// a one-cell margin on every side so that normals on chunk borders match
// their neighbours; triangles from the margin are dropped afterwards.
package tessellate

import (
	"context"
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/kernel"
	"github.com/chazu/tunnel3d/pkg/workers"
)

// ErrInvalidIsoLevel is returned when the iso-level lies outside [0, 1].
var ErrInvalidIsoLevel = errors.New("tessellate: iso-level must be within [0, 1]")

// Params controls surface extraction.
type Params struct {
	// IsoLevel is the density, in [0, 1], at which the surface is placed.
	// Corners denser than the level are inside.
	IsoLevel float64 `yaml:"iso_level"`

	// Invert meshes 1 - density, turning tunnels into solid rods.
	Invert bool `yaml:"invert"`

	// Workers bounds concurrent chunk extraction. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParams returns the stock extraction settings.
func DefaultParams() Params {
	return Params{IsoLevel: 0.5}
}

// Validate checks p.
func (p Params) Validate() error {
	if math.IsNaN(p.IsoLevel) || p.IsoLevel < 0 || p.IsoLevel > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidIsoLevel, p.IsoLevel)
	}
	return nil
}

// Extract meshes every chunk of g. The result has one non-nil mesh per
// chunk, in chunk index order; chunks without surface get an empty mesh.
// The grid is only read.
func Extract(ctx context.Context, g *field.Grid, p Params) ([]*kernel.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := check(g, p); err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, g.ChunkCount())
	err := workers.ForEach(ctx, len(meshes), p.Workers, func(_ context.Context, i int) error {
		m, err := extractChunk(g, p, i)
		if err != nil {
			return err
		}
		meshes[i] = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tessellate: extract: %w", err)
	}
	return meshes, nil
}

// ExtractChunk meshes a single chunk.
func ExtractChunk(g *field.Grid, p Params, index int) (*kernel.Mesh, error) {
	if err := check(g, p); err != nil {
		return nil, err
	}
	return extractChunk(g, p, index)
}

func check(g *field.Grid, p Params) error {
	if g == nil {
		return errors.New("tessellate: grid is nil")
	}
	if err := g.Validate(); err != nil {
		return err
	}
	return p.Validate()
}

// ---------------------------------------------------------------------------
// Chunk extraction
// ---------------------------------------------------------------------------

// edgeKey identifies a grid edge by its lower corner in chunk-local voxel
// coordinates and its axis. Cells sharing an edge share its vertex.
type edgeKey struct {
	x, y, z int
	axis    int
}

type triangle struct {
	v      [3]uint32
	margin bool
}

// chunkMesher holds the working state for one chunk.
type chunkMesher struct {
	p      Params
	voxels field.Dims
	scale  v3.Vec // world size of one chunk-local voxel step

	// values caches densities for local coordinates -1..voxels+1.
	values []float64
	stride field.Dims

	positions []v3.Vec
	lookup    map[edgeKey]uint32
	triangles []triangle
}

func extractChunk(g *field.Grid, p Params, index int) (*kernel.Mesh, error) {
	coord, err := g.ChunkCoord(index)
	if err != nil {
		return nil, err
	}
	vox := g.ChunkVoxels
	m := &chunkMesher{
		p:      p,
		voxels: vox,
		scale: v3.Vec{
			X: g.Volume.X / float64(g.Chunks.X) / float64(vox.X),
			Y: g.Volume.Y / float64(g.Chunks.Y) / float64(vox.Y),
			Z: g.Volume.Z / float64(g.Chunks.Z) / float64(vox.Z),
		},
		lookup: make(map[edgeKey]uint32),
	}
	m.sample(g, field.Dims{X: coord.X * vox.X, Y: coord.Y * vox.Y, Z: coord.Z * vox.Z})

	for z := -1; z <= vox.Z; z++ {
		for y := -1; y <= vox.Y; y++ {
			for x := -1; x <= vox.X; x++ {
				m.cell(x, y, z)
			}
		}
	}

	return m.build(index, g.ChunkOrigin(coord)), nil
}

// sample reads every corner the chunk's cells touch, margin included.
func (m *chunkMesher) sample(g *field.Grid, base field.Dims) {
	m.stride = field.Dims{X: m.voxels.X + 3, Y: m.voxels.Y + 3, Z: m.voxels.Z + 3}
	m.values = make([]float64, m.stride.Product())
	i := 0
	for z := -1; z <= m.voxels.Z+1; z++ {
		for y := -1; y <= m.voxels.Y+1; y++ {
			for x := -1; x <= m.voxels.X+1; x++ {
				v := g.Sample01(base.X+x, base.Y+y, base.Z+z)
				if m.p.Invert {
					v = 1 - v
				}
				m.values[i] = v
				i++
			}
		}
	}
}

func (m *chunkMesher) value(x, y, z int) float64 {
	s := m.stride
	return m.values[(x+1)+(y+1)*s.X+(z+1)*s.X*s.Y]
}

func (m *chunkMesher) cell(x, y, z int) {
	var corners [8]float64
	config := 0
	for i, off := range cornerOffsets {
		corners[i] = m.value(x+off[0], y+off[1], z+off[2])
		if corners[i] > m.p.IsoLevel {
			config |= 1 << i
		}
	}

	edges := triangleEdges[config]
	if len(edges) == 0 {
		return
	}
	margin := x < 0 || y < 0 || z < 0 || x == m.voxels.X || y == m.voxels.Y || z == m.voxels.Z
	for t := 0; t < len(edges); t += 3 {
		var tri triangle
		tri.margin = margin
		for k := 0; k < 3; k++ {
			tri.v[k] = m.vertex(x, y, z, int(edges[t+k]), &corners)
		}
		m.triangles = append(m.triangles, tri)
	}
}

// vertex returns the index of the surface crossing on edge e of cell
// (x, y, z), creating it on first use.
func (m *chunkMesher) vertex(x, y, z, e int, corners *[8]float64) uint32 {
	a, b := edgeCorners[e][0], edgeCorners[e][1]
	oa, ob := cornerOffsets[a], cornerOffsets[b]
	// Interpolate from the lower corner so both cells sharing the edge
	// compute the same position.
	if oa[0]+oa[1]+oa[2] > ob[0]+ob[1]+ob[2] {
		a, b = b, a
		oa, ob = ob, oa
	}
	axis := 0
	switch {
	case oa[1] != ob[1]:
		axis = 1
	case oa[2] != ob[2]:
		axis = 2
	}
	key := edgeKey{x: x + oa[0], y: y + oa[1], z: z + oa[2], axis: axis}
	if idx, ok := m.lookup[key]; ok {
		return idx
	}

	va, vb := corners[a], corners[b]
	t := (m.p.IsoLevel - va) / (vb - va)
	local := [3]float64{float64(key.x), float64(key.y), float64(key.z)}
	local[axis] += t
	pos := v3.Vec{X: local[0] * m.scale.X, Y: local[1] * m.scale.Y, Z: local[2] * m.scale.Z}

	idx := uint32(len(m.positions))
	m.positions = append(m.positions, pos)
	m.lookup[key] = idx
	return idx
}

// build accumulates normals over every triangle, margin included, then
// emits only the interior triangles and the vertices they reference.
func (m *chunkMesher) build(index int, origin v3.Vec) *kernel.Mesh {
	mesh := &kernel.Mesh{Chunk: index, Origin: origin}

	interior := 0
	for _, tri := range m.triangles {
		if !tri.margin {
			interior++
		}
	}
	if interior == 0 {
		return mesh
	}

	normals := make([]v3.Vec, len(m.positions))
	for _, tri := range m.triangles {
		p0, p1, p2 := m.positions[tri.v[0]], m.positions[tri.v[1]], m.positions[tri.v[2]]
		n := p2.Sub(p0).Cross(p1.Sub(p0))
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
			for _, v := range tri.v {
				normals[v] = normals[v].Add(n)
			}
		}
	}

	remap := make([]int64, len(m.positions))
	for i := range remap {
		remap[i] = -1
	}
	mesh.Indices = make([]uint32, 0, interior*3)
	for _, tri := range m.triangles {
		if tri.margin {
			continue
		}
		for _, v := range tri.v {
			if remap[v] < 0 {
				remap[v] = int64(mesh.VertexCount())
				p := m.positions[v]
				n := normals[v]
				if l := n.Length(); l > 0 {
					n = n.MulScalar(1 / l)
				} else {
					n = v3.Vec{Y: 1}
				}
				mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
				mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			}
			mesh.Indices = append(mesh.Indices, uint32(remap[v]))
		}
	}
	return mesh
}
