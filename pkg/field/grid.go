// Package field rasterizes a tunnel graph into a chunked density grid. Each
// accepted connection becomes a capsule whose density falls off with
// distance from the connection's axis.
package field

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sentinel errors for grid construction and rasterization.
var (
	ErrNilEase           = errors.New("field: ease function is nil")
	ErrInvalidRadius     = errors.New("field: tunnel radius must be positive")
	ErrAdjacencyMismatch = errors.New("field: adjacency matrix does not match node count")
	ErrInvalidDimensions = errors.New("field: counts and volume must be positive")
	ErrGridSizeMismatch  = errors.New("field: voxel data length does not match grid dimensions")
	ErrChunkOutOfRange   = errors.New("field: chunk index out of range")
)

// Dims is a voxel or chunk count per axis.
type Dims struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	Z int `yaml:"z" json:"z"`
}

// Uniform returns n on every axis.
func Uniform(n int) Dims {
	return Dims{X: n, Y: n, Z: n}
}

// Product returns X·Y·Z.
func (d Dims) Product() int {
	return d.X * d.Y * d.Z
}

// Mul multiplies per axis.
func (d Dims) Mul(o Dims) Dims {
	return Dims{X: d.X * o.X, Y: d.Y * o.Y, Z: d.Z * o.Z}
}

func (d Dims) positive() bool {
	return d.X > 0 && d.Y > 0 && d.Z > 0
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// Grid is a dense byte density field covering Volume, centered on the
// origin, split into Chunks of ChunkVoxels each. Data is indexed
// x + y·W + z·W·H over the whole grid.
type Grid struct {
	Volume      v3.Vec
	Chunks      Dims
	ChunkVoxels Dims
	Data        []byte
}

// NewGrid allocates an all-zero grid.
func NewGrid(volume v3.Vec, chunks, chunkVoxels Dims) (*Grid, error) {
	if err := checkDimensions(volume, chunks, chunkVoxels); err != nil {
		return nil, err
	}
	return &Grid{
		Volume:      volume,
		Chunks:      chunks,
		ChunkVoxels: chunkVoxels,
		Data:        make([]byte, chunks.Mul(chunkVoxels).Product()),
	}, nil
}

// FromBytes adopts externally produced voxel data after checking its length.
func FromBytes(volume v3.Vec, chunks, chunkVoxels Dims, data []byte) (*Grid, error) {
	if err := checkDimensions(volume, chunks, chunkVoxels); err != nil {
		return nil, err
	}
	g := &Grid{Volume: volume, Chunks: chunks, ChunkVoxels: chunkVoxels, Data: data}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func checkDimensions(volume v3.Vec, chunks, chunkVoxels Dims) error {
	if !chunks.positive() || !chunkVoxels.positive() {
		return fmt.Errorf("%w: chunks %s, voxels per chunk %s", ErrInvalidDimensions, chunks, chunkVoxels)
	}
	if volume.X <= 0 || volume.Y <= 0 || volume.Z <= 0 {
		return fmt.Errorf("%w: volume %v", ErrInvalidDimensions, volume)
	}
	return nil
}

// Validate checks that Data matches the declared dimensions.
func (g *Grid) Validate() error {
	if want := g.Dims().Product(); len(g.Data) != want {
		return fmt.Errorf("%w: have %d bytes, want %d (%s)", ErrGridSizeMismatch, len(g.Data), want, g.Dims())
	}
	return nil
}

// Dims returns the voxel count of the whole grid per axis.
func (g *Grid) Dims() Dims {
	return g.Chunks.Mul(g.ChunkVoxels)
}

// ChunkCount returns the total number of chunks.
func (g *Grid) ChunkCount() int {
	return g.Chunks.Product()
}

// Index returns the flat offset of voxel (x, y, z). It does not bounds check.
func (g *Grid) Index(x, y, z int) int {
	d := g.Dims()
	return x + y*d.X + z*d.X*d.Y
}

// At returns the voxel at (x, y, z), or 0 outside the grid.
func (g *Grid) At(x, y, z int) byte {
	d := g.Dims()
	if x < 0 || y < 0 || z < 0 || x >= d.X || y >= d.Y || z >= d.Z {
		return 0
	}
	return g.Data[x+y*d.X+z*d.X*d.Y]
}

// Sample01 returns At scaled to [0, 1].
func (g *Grid) Sample01(x, y, z int) float64 {
	return float64(g.At(x, y, z)) / 255
}

// Position returns the world-space position of voxel (x, y, z).
func (g *Grid) Position(x, y, z int) v3.Vec {
	d := g.Dims()
	return v3.Vec{
		X: (float64(x)/float64(d.X) - 0.5) * g.Volume.X,
		Y: (float64(y)/float64(d.Y) - 0.5) * g.Volume.Y,
		Z: (float64(z)/float64(d.Z) - 0.5) * g.Volume.Z,
	}
}

// VoxelSize returns the world-space extent of one voxel.
func (g *Grid) VoxelSize() v3.Vec {
	d := g.Dims()
	return v3.Vec{
		X: g.Volume.X / float64(d.X),
		Y: g.Volume.Y / float64(d.Y),
		Z: g.Volume.Z / float64(d.Z),
	}
}

// ChunkCoord decomposes a flat chunk index, X fastest.
func (g *Grid) ChunkCoord(i int) (Dims, error) {
	if i < 0 || i >= g.ChunkCount() {
		return Dims{}, fmt.Errorf("%w: %d of %d", ErrChunkOutOfRange, i, g.ChunkCount())
	}
	c := g.Chunks
	return Dims{X: i % c.X, Y: i / c.X % c.Y, Z: i / c.X / c.Y % c.Z}, nil
}

// ChunkOrigin returns the world-space minimum corner of chunk coord.
func (g *Grid) ChunkOrigin(coord Dims) v3.Vec {
	return v3.Vec{
		X: (float64(coord.X)/float64(g.Chunks.X) - 0.5) * g.Volume.X,
		Y: (float64(coord.Y)/float64(g.Chunks.Y) - 0.5) * g.Volume.Y,
		Z: (float64(coord.Z)/float64(g.Chunks.Z) - 0.5) * g.Volume.Z,
	}
}

// Occupied returns the number of non-zero voxels.
func (g *Grid) Occupied() int {
	n := 0
	for _, b := range g.Data {
		if b != 0 {
			n++
		}
	}
	return n
}

// voxelRange converts a world-space interval on one axis to a half-open
// voxel index range clamped to [0, dim].
func voxelRange(lo, hi, volume float64, dim int) (int, int) {
	half := volume / 2
	lo = math.Max(lo, -half)
	hi = math.Min(hi, half)
	first := int(math.Floor((lo/volume + 0.5) * float64(dim)))
	last := int(math.Ceil((hi/volume + 0.5) * float64(dim)))
	return max(0, min(first, dim)), max(0, min(last, dim))
}
