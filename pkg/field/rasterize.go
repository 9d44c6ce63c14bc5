package field

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tunnel3d/pkg/ease"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/graph"
	"github.com/chazu/tunnel3d/pkg/noise"
	"github.com/chazu/tunnel3d/pkg/workers"
)

// noiseScale stretches world coordinates before sampling wall noise.
const noiseScale = 100

// Params controls rasterization.
type Params struct {
	Volume      v3.Vec `yaml:"volume"`
	Chunks      Dims   `yaml:"chunks"`
	ChunkVoxels Dims   `yaml:"chunk_voxels"`

	// TunnelRadius is the distance from a connection's axis at which the
	// ease curve reaches x = 1.
	TunnelRadius float64 `yaml:"tunnel_radius"`

	Ease ease.Func `yaml:"-"`

	// Noise, when set with a non-zero NoiseIntensity, is added inside the
	// tunnel radius.
	Noise          noise.Sampler `yaml:"-"`
	NoiseIntensity float64       `yaml:"noise_intensity"`

	// Workers bounds concurrent edge rasterization. Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParams returns a 16³ volume split into 4³ chunks of 8³ voxels,
// with unit tunnel radius and the default ease curve.
func DefaultParams() Params {
	return Params{
		Volume:       v3.Vec{X: 16, Y: 16, Z: 16},
		Chunks:       Uniform(4),
		ChunkVoxels:  Uniform(8),
		TunnelRadius: 1,
		Ease:         ease.DefaultCurve(),
	}
}

type options struct {
	logger *slog.Logger
}

// Option configures Rasterize.
type Option func(*options)

// WithLogger sets the logger used for degenerate-input warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Rasterize writes every accepted connection of g into a new grid. Where
// tunnels overlap the denser value wins.
//
// A nil graph or one without nodes yields an all-zero grid and a warning.
func Rasterize(ctx context.Context, g *graph.Graph, p Params, opts ...Option) (*Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := NewGrid(p.Volume, p.Chunks, p.ChunkVoxels)
	if err != nil {
		return nil, err
	}
	if p.Ease == nil {
		return nil, ErrNilEase
	}
	if !(p.TunnelRadius > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, p.TunnelRadius)
	}
	if g == nil || len(g.Nodes) == 0 {
		o.logger.Warn("field: no nodes to rasterize, generating empty grid")
		return grid, nil
	}
	n := len(g.Nodes)
	if len(g.Adjacency) != n*n {
		return nil, fmt.Errorf("%w: %d entries for %d nodes", ErrAdjacencyMismatch, len(g.Adjacency), n)
	}

	r := &rasterizer{grid: grid, p: p}
	edges := g.Edges()
	err = workers.ForEach(ctx, len(edges), p.Workers, func(_ context.Context, i int) error {
		r.edge(g.Segment(edges[i]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("field: rasterize: %w", err)
	}
	return grid, nil
}

// ---------------------------------------------------------------------------
// Per-edge rasterization
// ---------------------------------------------------------------------------

type rasterizer struct {
	grid  *Grid
	p     Params
	locks lockStripes
}

func (r *rasterizer) edge(seg geom.Segment) {
	box := seg.Bounds(r.p.TunnelRadius)
	d := r.grid.Dims()
	vol := r.grid.Volume

	x0, x1 := voxelRange(box.Min.X, box.Max.X, vol.X, d.X)
	y0, y1 := voxelRange(box.Min.Y, box.Max.Y, vol.Y, d.Y)
	z0, z1 := voxelRange(box.Min.Z, box.Max.Z, vol.Z, d.Z)

	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				pos := r.grid.Position(x, y, z)
				v := r.density(seg, pos)
				r.locks.max(r.grid.Data, r.grid.Index(x, y, z), v)
			}
		}
	}
}

// density evaluates the ease curve at pos and quantizes it to a byte.
func (r *rasterizer) density(seg geom.Segment, pos v3.Vec) byte {
	n := geom.DistanceSegmentToPoint(seg, pos) / r.p.TunnelRadius
	v := r.p.Ease.Sample(geom.Clamp(n, 0, 1))
	if n < 1 && r.p.Noise != nil && r.p.NoiseIntensity != 0 {
		v += (r.p.Noise.Sample(pos.MulScalar(noiseScale)) + 1) / 2 * r.p.NoiseIntensity
	}
	return Quantize(v)
}

// Quantize maps a density in [0, 1] to a byte, clamping out-of-range values.
func Quantize(v float64) byte {
	if math.IsNaN(v) {
		return 0
	}
	return byte(math.Round(geom.Clamp(v, 0, 1) * 255))
}

// ---------------------------------------------------------------------------
// Striped max-combine
// ---------------------------------------------------------------------------

const stripeCount = 64

// lockStripes guards concurrent read-modify-write of grid cells. Cell i is
// guarded by stripe i % stripeCount.
type lockStripes struct {
	mu [stripeCount]sync.Mutex
}

func (l *lockStripes) max(data []byte, i int, v byte) {
	m := &l.mu[i%stripeCount]
	m.Lock()
	if v > data[i] {
		data[i] = v
	}
	m.Unlock()
}
