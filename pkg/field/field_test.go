package field

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/tunnel3d/pkg/ease"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/graph"
	"github.com/chazu/tunnel3d/pkg/noise"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func edgeGraph(t *testing.T, pairs ...[2]v3.Vec) *graph.Graph {
	t.Helper()
	var nodes []v3.Vec
	for _, p := range pairs {
		nodes = append(nodes, p[0], p[1])
	}
	n := len(nodes)
	adj := make([]byte, n*n)
	for i := 0; i < n; i += 2 {
		adj[i*n+i+1] = 1
		adj[(i+1)*n+i] = 1
	}
	g, err := graph.FromMatrices(nodes, adj, nil)
	require.NoError(t, err)
	return g
}

func smallParams() Params {
	p := DefaultParams()
	p.Volume = v3.Vec{X: 16, Y: 16, Z: 16}
	p.Chunks = Uniform(2)
	p.ChunkVoxels = Uniform(16)
	p.TunnelRadius = 2
	p.Ease = ease.Invert
	return p
}

// ---------------------------------------------------------------------------
// Rasterization
// ---------------------------------------------------------------------------

func TestRasterize_SingleEdgeMatchesEase(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    ease.Func
	}{
		{"invert", ease.Invert},
		{"linear", ease.Linear},
		{"default curve", ease.DefaultCurve()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := smallParams()
			p.Ease = tc.f
			a, b := v3.Vec{X: -4, Y: 0.3}, v3.Vec{X: 4, Y: 0.3, Z: 1}
			grid, err := Rasterize(context.Background(), edgeGraph(t, [2]v3.Vec{a, b}), p, quiet())
			require.NoError(t, err)

			seg := geom.NewSegment(a, b)
			d := grid.Dims()
			checked := 0
			for z := 0; z < d.Z; z++ {
				for y := 0; y < d.Y; y++ {
					for x := 0; x < d.X; x++ {
						pos := grid.Position(x, y, z)
						dist := geom.DistanceSegmentToPoint(seg, pos)
						if dist > p.TunnelRadius {
							continue
						}
						want := Quantize(tc.f.Sample(dist / p.TunnelRadius))
						if got := grid.At(x, y, z); got != want {
							t.Fatalf("voxel (%d,%d,%d) at %v: got %d, want %d", x, y, z, pos, got, want)
						}
						checked++
					}
				}
			}
			assert.NotZero(t, checked)
		})
	}
}

func TestRasterize_AxisAndRim(t *testing.T) {
	p := smallParams()
	g := edgeGraph(t, [2]v3.Vec{{X: -4}, {X: 4}})

	grid, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	// Voxel 16 maps to world 0 on a 32-voxel, 16-unit axis.
	assert.Equal(t, byte(255), grid.At(16, 16, 16))
	// y = 0.5: a quarter of the radius.
	assert.Equal(t, Quantize(0.75), grid.At(16, 17, 16))
	// y = 2: exactly on the rim.
	assert.Equal(t, byte(0), grid.At(16, 20, 16))
	// Far from the tunnel.
	assert.Equal(t, byte(0), grid.At(0, 0, 0))
}

func TestRasterize_OutsideRadiusWithinBoxUsesRimValue(t *testing.T) {
	p := smallParams()
	p.Ease = ease.Linear
	g := edgeGraph(t, [2]v3.Vec{{X: -4}, {X: 4}})

	grid, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	// (y, z) = (1.5, 1.5) lies outside the radius but inside the bounds.
	assert.Equal(t, byte(255), grid.At(16, 19, 19))
	// Beyond the bounds nothing is written.
	assert.Equal(t, byte(0), grid.At(16, 24, 16))
	// On the axis linear ease is empty.
	assert.Equal(t, byte(0), grid.At(16, 16, 16))
}

func TestRasterize_MaxCombine(t *testing.T) {
	p := smallParams()
	e1 := [2]v3.Vec{{X: -5, Y: -1}, {X: 5, Y: 1}}
	e2 := [2]v3.Vec{{Z: -5, Y: 1}, {Z: 5, X: 1}}

	a, err := Rasterize(context.Background(), edgeGraph(t, e1), p, quiet())
	require.NoError(t, err)
	b, err := Rasterize(context.Background(), edgeGraph(t, e2), p, quiet())
	require.NoError(t, err)
	both, err := Rasterize(context.Background(), edgeGraph(t, e1, e2), p, quiet())
	require.NoError(t, err)

	for i := range both.Data {
		want := max(a.Data[i], b.Data[i])
		if both.Data[i] != want {
			t.Fatalf("voxel %d: got %d, want max(%d, %d)", i, both.Data[i], a.Data[i], b.Data[i])
		}
	}
}

func TestRasterize_WorkerCountDoesNotChangeResult(t *testing.T) {
	gp := graph.DefaultParams()
	gp.NodeCount = 12
	gp.ConnectionCount = 18
	gp.Seed = 5
	g, err := graph.Synthesize(context.Background(), gp,
		graph.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	p := smallParams()
	p.Workers = 1
	serial, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	p.Workers = 8
	parallel, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	assert.True(t, bytes.Equal(serial.Data, parallel.Data))
	assert.NotZero(t, serial.Occupied())
}

func TestRasterize_ChunkedXAxisTunnel(t *testing.T) {
	p := DefaultParams()
	p.Volume = v3.Vec{X: 16, Y: 16, Z: 16}
	p.Chunks = Uniform(4)
	p.ChunkVoxels = Uniform(8)
	p.TunnelRadius = 1.5
	p.Ease = ease.Invert

	g := edgeGraph(t, [2]v3.Vec{{X: -8}, {X: 8}})
	grid, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	d := grid.Dims()
	require.Equal(t, Uniform(32), d)
	require.Len(t, grid.Data, 32*32*32)

	for x := 0; x < d.X; x++ {
		assert.Greater(t, grid.At(x, 16, 16), byte(0), "axis voxel x=%d", x)
	}
	for _, c := range [][3]int{{0, 0, 0}, {31, 0, 0}, {0, 31, 31}, {31, 31, 31}} {
		assert.Zero(t, grid.At(c[0], c[1], c[2]), "corner %v", c)
	}
}

func TestRasterize_Noise(t *testing.T) {
	p := smallParams()
	p.Noise = noise.Constant(1)
	p.NoiseIntensity = 0.5
	g := edgeGraph(t, [2]v3.Vec{{X: -4}, {X: 4}})

	grid, err := Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)

	// n = 0.5: 0.5 from the curve plus 0.5 of noise.
	assert.Equal(t, byte(255), grid.At(16, 18, 16))
	// On the rim the noise is not applied.
	assert.Equal(t, byte(0), grid.At(16, 20, 16))

	p.Noise = noise.Constant(-1)
	grid, err = Rasterize(context.Background(), g, p, quiet())
	require.NoError(t, err)
	assert.Equal(t, Quantize(0.5), grid.At(16, 18, 16))
}

func TestRasterize_EmptyGraph(t *testing.T) {
	for _, g := range []*graph.Graph{nil, graph.Empty()} {
		var logs bytes.Buffer
		grid, err := Rasterize(context.Background(), g, smallParams(),
			WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		require.NoError(t, err)
		assert.Zero(t, grid.Occupied())
		assert.Len(t, grid.Data, 32*32*32)
		assert.Contains(t, logs.String(), "no nodes")
	}
}

func TestRasterize_Errors(t *testing.T) {
	g := edgeGraph(t, [2]v3.Vec{{X: -4}, {X: 4}})

	p := smallParams()
	p.Ease = nil
	_, err := Rasterize(context.Background(), g, p)
	require.ErrorIs(t, err, ErrNilEase)

	p = smallParams()
	p.TunnelRadius = 0
	_, err = Rasterize(context.Background(), g, p)
	require.ErrorIs(t, err, ErrInvalidRadius)

	p = smallParams()
	p.Chunks = Dims{X: 1, Y: 0, Z: 1}
	_, err = Rasterize(context.Background(), g, p)
	require.ErrorIs(t, err, ErrInvalidDimensions)

	p = smallParams()
	p.Volume.Z = 0
	_, err = Rasterize(context.Background(), g, p)
	require.ErrorIs(t, err, ErrInvalidDimensions)

	bad := &graph.Graph{Nodes: g.Nodes, Adjacency: []byte{0, 1}}
	_, err = Rasterize(context.Background(), bad, smallParams())
	require.ErrorIs(t, err, ErrAdjacencyMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Rasterize(ctx, g, smallParams())
	require.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// Grid
// ---------------------------------------------------------------------------

func TestGrid_AtOutOfBounds(t *testing.T) {
	grid, err := NewGrid(v3.Vec{X: 2, Y: 2, Z: 2}, Uniform(1), Uniform(2))
	require.NoError(t, err)
	for i := range grid.Data {
		grid.Data[i] = 9
	}
	assert.Equal(t, byte(9), grid.At(0, 0, 0))
	assert.Equal(t, byte(9), grid.At(1, 1, 1))
	assert.Zero(t, grid.At(-1, 0, 0))
	assert.Zero(t, grid.At(0, 2, 0))
	assert.Zero(t, grid.At(0, 0, 5))
	assert.InDelta(t, 9.0/255, grid.Sample01(1, 0, 1), 1e-12)
}

func TestGrid_Index(t *testing.T) {
	grid, err := NewGrid(v3.Vec{X: 1, Y: 1, Z: 1}, Dims{X: 1, Y: 1, Z: 1}, Dims{X: 3, Y: 4, Z: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, grid.Index(0, 0, 0))
	assert.Equal(t, 2+3*3+4*12, grid.Index(2, 3, 4))
	assert.Len(t, grid.Data, 60)
}

func TestFromBytes(t *testing.T) {
	vol := v3.Vec{X: 4, Y: 4, Z: 4}
	_, err := FromBytes(vol, Uniform(2), Uniform(2), make([]byte, 64))
	require.NoError(t, err)

	_, err = FromBytes(vol, Uniform(2), Uniform(2), make([]byte, 63))
	require.ErrorIs(t, err, ErrGridSizeMismatch)

	_, err = FromBytes(vol, Uniform(0), Uniform(2), nil)
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestGrid_Chunks(t *testing.T) {
	grid, err := NewGrid(v3.Vec{X: 16, Y: 8, Z: 4}, Dims{X: 4, Y: 2, Z: 3}, Uniform(2))
	require.NoError(t, err)
	assert.Equal(t, 24, grid.ChunkCount())

	c, err := grid.ChunkCoord(0)
	require.NoError(t, err)
	assert.Equal(t, Dims{}, c)

	c, err = grid.ChunkCoord(4*2*2 + 4*1 + 3)
	require.NoError(t, err)
	assert.Equal(t, Dims{X: 3, Y: 1, Z: 2}, c)

	_, err = grid.ChunkCoord(24)
	require.ErrorIs(t, err, ErrChunkOutOfRange)

	origin := grid.ChunkOrigin(Dims{X: 1, Y: 1, Z: 0})
	assert.InDelta(t, -4, origin.X, 1e-12)
	assert.InDelta(t, 0, origin.Y, 1e-12)
	assert.InDelta(t, -2, origin.Z, 1e-12)
}

func TestVoxelRange(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi, volume float64
		dim            int
		wantLo, wantHi int
	}{
		{"centered", -1, 1, 16, 32, 14, 18},
		{"clamped low", -20, -7, 16, 32, 0, 2},
		{"clamped high", 7.1, 30, 16, 32, 30, 32},
		{"outside", 9, 12, 16, 32, 32, 32},
		{"whole", -8, 8, 16, 32, 0, 32},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := voxelRange(tc.lo, tc.hi, tc.volume, tc.dim)
			assert.Equal(t, tc.wantLo, lo)
			assert.Equal(t, tc.wantHi, hi)
		})
	}
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, byte(0), Quantize(-1))
	assert.Equal(t, byte(128), Quantize(0.5))
	assert.Equal(t, byte(255), Quantize(1))
	assert.Equal(t, byte(255), Quantize(7))
}
