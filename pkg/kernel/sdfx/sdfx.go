// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 128

var errNilSolid = errors.New("sdfx: solid is nil")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	if s == nil {
		return nil
	}
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates an axis-aligned box spanning min to max.
func (k *SdfxKernel) Box(min, max v3.Vec) kernel.Solid {
	s, err := sdf.Box3D(max.Sub(min), 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	// sdf.Box3D centers the box at the origin.
	m := sdf.Translate3d(min.Add(max).MulScalar(0.5))
	return wrap(sdf.Transform3D(s, m))
}

// Capsule creates the set of points within radius of seg.
func (k *SdfxKernel) Capsule(seg geom.Segment, radius float64) kernel.Solid {
	return wrap(&capsule{seg: seg, radius: radius})
}

// Field creates the solid where the grid's interpolated density exceeds
// level.
func (k *SdfxKernel) Field(g *field.Grid, level float64) kernel.Solid {
	return wrap(newDensity(g, level))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	sdf3, cells, err := prepare(s, cells)
	if err != nil {
		return nil, err
	}
	triangles := render.ToTriangles(sdf3, render.NewMarchingCubesUniform(cells))

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Chunk:    -1,
	}, nil
}

// WriteSTL meshes s and writes it as binary STL.
func (k *SdfxKernel) WriteSTL(s kernel.Solid, cells int, path string) error {
	sdf3, cells, err := prepare(s, cells)
	if err != nil {
		return err
	}
	triangles := render.ToTriangles(sdf3, render.NewMarchingCubesUniform(cells))
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("sdfx: write %s: %w", path, err)
	}
	return nil
}

func prepare(s kernel.Solid, cells int) (sdf.SDF3, int, error) {
	sdf3 := unwrap(s)
	if sdf3 == nil {
		return nil, 0, errNilSolid
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return sdf3, cells, nil
}

// ---------------------------------------------------------------------------
// Custom SDFs
// ---------------------------------------------------------------------------

// capsule is the exact signed distance to a swept sphere.
type capsule struct {
	seg    geom.Segment
	radius float64
}

func (c *capsule) Evaluate(p v3.Vec) float64 {
	return geom.DistanceSegmentToPoint(c.seg, p) - c.radius
}

func (c *capsule) BoundingBox() sdf.Box3 {
	return c.seg.Bounds(c.radius)
}

// density turns a byte grid into an implicit surface by trilinear
// interpolation. It is not a true distance: values are level minus density,
// negative inside.
type density struct {
	grid  *field.Grid
	level float64
	dims  field.Dims
	bb    sdf.Box3
}

func newDensity(g *field.Grid, level float64) *density {
	half := g.Volume.MulScalar(0.5)
	return &density{
		grid:  g,
		level: level,
		dims:  g.Dims(),
		bb:    sdf.Box3{Min: half.MulScalar(-1), Max: half},
	}
}

func (d *density) Evaluate(p v3.Vec) float64 {
	cx := (p.X/d.grid.Volume.X + 0.5) * float64(d.dims.X)
	cy := (p.Y/d.grid.Volume.Y + 0.5) * float64(d.dims.Y)
	cz := (p.Z/d.grid.Volume.Z + 0.5) * float64(d.dims.Z)
	x0, y0, z0 := math.Floor(cx), math.Floor(cy), math.Floor(cz)
	fx, fy, fz := cx-x0, cy-y0, cz-z0
	ix, iy, iz := int(x0), int(y0), int(z0)

	s := func(dx, dy, dz int) float64 {
		return d.grid.Sample01(ix+dx, iy+dy, iz+dz)
	}
	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	c00 := lerp(s(0, 0, 0), s(1, 0, 0), fx)
	c10 := lerp(s(0, 1, 0), s(1, 1, 0), fx)
	c01 := lerp(s(0, 0, 1), s(1, 0, 1), fx)
	c11 := lerp(s(0, 1, 1), s(1, 1, 1), fx)
	v := lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
	return d.level - v
}

func (d *density) BoundingBox() sdf.Box3 {
	return d.bb
}
