package graph

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/tunnel3d/pkg/geom"
)

// ErrMatrixSize is returned when an adjacency or weight matrix does not have
// nodeCount² entries.
var ErrMatrixSize = errors.New("graph: matrix length does not match node count")

// Edge is an accepted connection between two node indices, with A < B.
type Edge struct {
	A, B int
}

// Graph is the committed output of synthesis. It is never mutated in place;
// regeneration produces a new Graph.
type Graph struct {
	Nodes []v3.Vec `json:"nodes"`

	// Adjacency is the flattened N×N connectivity matrix, row-major.
	// Entries are 0 or 1 and the matrix is symmetric.
	Adjacency []byte `json:"adjacency"`

	// Weights holds the edge costs of the complete candidate graph.
	// Nil when the graph has fewer than two nodes.
	Weights *mat.SymDense `json:"-"`
}

// Empty returns a graph with no nodes.
func Empty() *Graph {
	return &Graph{Nodes: []v3.Vec{}, Adjacency: []byte{}}
}

// FromMatrices builds a graph from host-supplied flat matrices. Both matrices
// must have len(nodes)² entries; weights may be nil.
func FromMatrices(nodes []v3.Vec, adjacency []byte, weights []float64) (*Graph, error) {
	n := len(nodes)
	if len(adjacency) != n*n {
		return nil, fmt.Errorf("%w: adjacency has %d entries, want %d", ErrMatrixSize, len(adjacency), n*n)
	}
	if weights != nil && len(weights) != n*n {
		return nil, fmt.Errorf("%w: weights has %d entries, want %d", ErrMatrixSize, len(weights), n*n)
	}

	g := &Graph{
		Nodes:     append([]v3.Vec(nil), nodes...),
		Adjacency: append([]byte(nil), adjacency...),
	}
	if n >= 2 && weights != nil {
		g.Weights = mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				g.Weights.SetSym(i, j, weights[i*n+j])
			}
		}
	}
	return g, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// Connected reports whether nodes i and j share an accepted edge.
func (g *Graph) Connected(i, j int) bool {
	return g.Adjacency[i*len(g.Nodes)+j] != 0
}

// Weight returns the candidate cost between i and j, or 0 without weights.
func (g *Graph) Weight(i, j int) float64 {
	if g.Weights == nil {
		return 0
	}
	return g.Weights.At(i, j)
}

// WeightMatrix returns the weights flattened row-major into N×N entries.
func (g *Graph) WeightMatrix() []float64 {
	n := len(g.Nodes)
	out := make([]float64, n*n)
	if g.Weights == nil {
		return out
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = g.Weights.At(i, j)
		}
	}
	return out
}

// Edges returns every accepted edge ordered by (A, B).
func (g *Graph) Edges() []Edge {
	n := len(g.Nodes)
	var edges []Edge
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if g.Adjacency[a*n+b] != 0 {
				edges = append(edges, Edge{A: a, B: b})
			}
		}
	}
	return edges
}

// Segment returns the world-space segment for an edge.
func (g *Graph) Segment(e Edge) geom.Segment {
	return geom.NewSegment(g.Nodes[e.A], g.Nodes[e.B])
}

// Degree returns the number of accepted edges touching node i.
func (g *Graph) Degree(i int) int {
	n := len(g.Nodes)
	d := 0
	for j := 0; j < n; j++ {
		if j != i && g.Adjacency[i*n+j] != 0 {
			d++
		}
	}
	return d
}

// IsConnected reports whether every node is reachable from node 0.
// Graphs with fewer than two nodes are trivially connected.
func (g *Graph) IsConnected() bool {
	n := len(g.Nodes)
	if n < 2 {
		return true
	}
	seen := make([]bool, n)
	seen[0] = true
	queue := []int{0}
	reached := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next := 0; next < n; next++ {
			if !seen[next] && g.Adjacency[cur*n+next] != 0 {
				seen[next] = true
				reached++
				queue = append(queue, next)
			}
		}
	}
	return reached == n
}

// IntersectionCount returns the number of accepted edge pairs, not sharing a
// node, that pass within radius of each other.
func (g *Graph) IntersectionCount(radius float64) int {
	edges := g.Edges()
	count := 0
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if sharesNode(edges[i], edges[j]) {
				continue
			}
			if geom.DistanceSegmentToSegment(g.Segment(edges[i]), g.Segment(edges[j])) < radius {
				count++
			}
		}
	}
	return count
}

func sharesNode(a, b Edge) bool {
	return a.A == b.A || a.A == b.B || a.B == b.A || a.B == b.B
}
