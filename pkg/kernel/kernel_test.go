package kernel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/graph"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{Chunk: 3}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshVertexAddsOrigin(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{1, 2, 3, -1, 0, 0.5},
		Normals:  []float32{0, 0, 1, 1, 0, 0},
		Origin:   v3.Vec{X: 10, Y: 20, Z: 30},
	}
	if got, want := m.Vertex(0), (v3.Vec{X: 11, Y: 22, Z: 33}); got != want {
		t.Errorf("Vertex(0) = %v, want %v", got, want)
	}
	if got, want := m.Vertex(1), (v3.Vec{X: 9, Y: 20, Z: 30.5}); got != want {
		t.Errorf("Vertex(1) = %v, want %v", got, want)
	}
	if got, want := m.Normal(1), (v3.Vec{X: 1}); got != want {
		t.Errorf("Normal(1) = %v, want %v", got, want)
	}
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := (&Mesh{}).Bounds(); ok {
		t.Error("Bounds() ok = true for empty mesh")
	}

	m := &Mesh{
		Vertices: []float32{0, 0, 0, 2, -1, 4, -3, 5, 1},
		Origin:   v3.Vec{X: 1},
	}
	lo, hi, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false for non-empty mesh")
	}
	if want := (v3.Vec{X: -2, Y: -1, Z: 0}); lo != want {
		t.Errorf("lo = %v, want %v", lo, want)
	}
	if want := (v3.Vec{X: 3, Y: 5, Z: 4}); hi != want {
		t.Errorf("hi = %v, want %v", hi, want)
	}
}

// --- Stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

func box(min, max v3.Vec) *stubSolid {
	return &stubSolid{
		minBB: [3]float64{min.X, min.Y, min.Z},
		maxBB: [3]float64{max.X, max.Y, max.Z},
	}
}

// stubKernel tracks solids as bounding boxes and counts calls.
type stubKernel struct {
	capsules, unions int
}

func (k *stubKernel) Box(min, max v3.Vec) Solid { return box(min, max) }

func (k *stubKernel) Capsule(seg geom.Segment, radius float64) Solid {
	k.capsules++
	bb := seg.Bounds(radius)
	return box(bb.Min, bb.Max)
}

func (k *stubKernel) Field(g *field.Grid, _ float64) Solid {
	half := g.Volume.MulScalar(0.5)
	return box(half.MulScalar(-1), half)
}

func (k *stubKernel) Union(a, b Solid) Solid {
	k.unions++
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	out := &stubSolid{}
	for i := 0; i < 3; i++ {
		out.minBB[i] = min(amin[i], bmin[i])
		out.maxBB[i] = max(amax[i], bmax[i])
	}
	return out
}

func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) ToMesh(_ Solid, _ int) (*Mesh, error) {
	return &Mesh{Chunk: -1}, nil
}

func (k *stubKernel) WriteSTL(_ Solid, _ int, _ string) error { return nil }

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestVolumeBoxIsCentered(t *testing.T) {
	k := &stubKernel{}
	s := VolumeBox(k, v3.Vec{X: 16, Y: 8, Z: 4})
	min, max := s.BoundingBox()
	if min != [3]float64{-8, -4, -2} {
		t.Errorf("min = %v, want [-8 -4 -2]", min)
	}
	if max != [3]float64{8, 4, 2} {
		t.Errorf("max = %v, want [8 4 2]", max)
	}
}

func TestNetworkUnionsEveryConnection(t *testing.T) {
	nodes := []v3.Vec{{X: -4}, {}, {X: 4, Y: 2}}
	adj := []byte{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	}
	g, err := graph.FromMatrices(nodes, adj, nil)
	if err != nil {
		t.Fatalf("FromMatrices() error = %v", err)
	}

	k := &stubKernel{}
	s := Network(k, g, 1)
	if s == nil {
		t.Fatal("Network() = nil for a connected graph")
	}
	if k.capsules != 2 {
		t.Errorf("capsules = %d, want 2", k.capsules)
	}
	if k.unions != 1 {
		t.Errorf("unions = %d, want 1", k.unions)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -1, -1} {
		t.Errorf("min = %v, want [-5 -1 -1]", min)
	}
	if max != [3]float64{5, 3, 1} {
		t.Errorf("max = %v, want [5 3 1]", max)
	}
}

func TestNetworkWithoutConnections(t *testing.T) {
	k := &stubKernel{}
	if s := Network(k, nil, 1); s != nil {
		t.Errorf("Network(nil) = %v, want nil", s)
	}
	g, err := graph.FromMatrices([]v3.Vec{{}, {X: 1}}, []byte{0, 0, 0, 0}, nil)
	if err != nil {
		t.Fatalf("FromMatrices() error = %v", err)
	}
	if s := Network(k, g, 1); s != nil {
		t.Errorf("Network(no edges) = %v, want nil", s)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	m, err := k.ToMesh(k.Box(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1}), 0)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}

// --- OBJ output ---

func TestWriteOBJ(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Origin:   v3.Vec{Z: 2},
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "chunk_0", m); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	want := strings.Join([]string{
		"o chunk_0",
		"v 0 0 2",
		"v 1 0 2",
		"v 0 1 2",
		"vn 0 0 1",
		"vn 0 0 1",
		"vn 0 0 1",
		"f 1//1 2//2 3//3",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteOBJ() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteOBJWithoutNormals(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{2, 1, 0},
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "bare", m); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "f 3 2 1\n") {
		t.Errorf("unexpected face line in:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "vn") {
		t.Error("normals written for a mesh without normals")
	}
}

func TestSaveOBJEmptyMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.obj")
	if err := SaveOBJ(path, "empty", &Mesh{}); err != nil {
		t.Fatalf("SaveOBJ() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "o empty\n" {
		t.Errorf("empty mesh OBJ = %q, want header only", data)
	}
	if err := SaveOBJ(filepath.Join(t.TempDir(), "missing", "x.obj"), "x", &Mesh{}); err == nil {
		t.Error("SaveOBJ() into a missing directory should fail")
	}
}
