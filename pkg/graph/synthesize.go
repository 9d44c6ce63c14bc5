package graph

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/tunnel3d/pkg/geom"
)

// maxElevationRatio caps |Δy| / horizontal distance for near-vertical edges.
const maxElevationRatio = 1000

type options struct {
	logger *slog.Logger
	rng    *rand.Rand
}

// Option configures Synthesize.
type Option func(*options)

// WithLogger sets the logger used for degenerate-input warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRand overrides the random source. By default a source seeded with
// Params.Seed is used.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// Synthesize places nodes and selects connections according to p.
//
// Fewer than two nodes is not an error: an empty graph is returned and a
// warning is logged.
func Synthesize(ctx context.Context, p Params, opts ...Option) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(p.Seed))
	}

	n := p.TotalNodes()
	if n < 2 {
		o.logger.Warn("graph: fewer than two nodes, generating empty graph", "nodes", n)
		return Empty(), nil
	}

	s := &synthesizer{
		p:         p,
		rng:       o.rng,
		logger:    o.logger,
		n:         n,
		nodes:     make([]v3.Vec, n),
		adjacency: make([]byte, n*n),
		weights:   mat.NewSymDense(n, nil),
		segments:  make([]geom.Segment, n*n),
		queue:     newCandidateQueue(),
		visited:   make([]bool, n),
	}
	s.placeNodes()
	s.buildCandidates()
	s.selectConnections()
	s.completeTree()

	return &Graph{Nodes: s.nodes, Adjacency: s.adjacency, Weights: s.weights}, nil
}

// synthesizer holds the working state of a single synthesis pass.
type synthesizer struct {
	p      Params
	rng    *rand.Rand
	logger *slog.Logger
	n      int

	nodes     []v3.Vec
	adjacency []byte
	weights   *mat.SymDense
	segments  []geom.Segment

	queue    *candidateQueue
	buffer   []candidate
	visited  []bool
	accepted int
	penalty  float64
}

// ---------------------------------------------------------------------------
// Node placement
// ---------------------------------------------------------------------------

func (s *synthesizer) placeNodes() {
	copy(s.nodes, s.p.PresetNodes)

	attempts := s.p.SeparationAttempts
	if attempts <= 0 {
		attempts = DefaultSeparationAttempts
	}

	for i := len(s.p.PresetNodes); i < s.n; i++ {
		var candidate v3.Vec
		for attempt := 0; attempt < attempts; attempt++ {
			decay := geom.Clamp(float64(attempts-attempt)/float64(attempts), 0, 1)
			candidate = s.randomPoint()
			if s.separated(i, candidate, s.p.Separation*decay) {
				break
			}
		}
		s.nodes[i] = candidate
	}
}

func (s *synthesizer) randomPoint() v3.Vec {
	lo, hi := s.p.BoundsMin, s.p.BoundsMax
	return v3.Vec{
		X: lerp(lo.X, hi.X, s.rng.Float64()),
		Y: lerp(lo.Y, hi.Y, s.rng.Float64()),
		Z: lerp(lo.Z, hi.Z, s.rng.Float64()),
	}
}

// separated reports whether p lies farther than threshold from every segment
// formed by the first placed nodes.
func (s *synthesizer) separated(placed int, p v3.Vec, threshold float64) bool {
	for a := 0; a < placed; a++ {
		for b := a + 1; b < placed; b++ {
			if geom.DistanceSegmentToPoint(geom.NewSegment(s.nodes[a], s.nodes[b]), p) <= threshold {
				return false
			}
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Candidate edges
// ---------------------------------------------------------------------------

func (s *synthesizer) buildCandidates() {
	maxWeight := 0.0
	for i := 0; i < s.n-1; i++ {
		for j := i + 1; j < s.n; j++ {
			w := edgeWeight(s.nodes[i], s.nodes[j], s.p.ElevationAspect)
			maxWeight = math.Max(maxWeight, w)
			s.weights.SetSym(i, j, w)

			seg := geom.NewSegment(s.nodes[i], s.nodes[j])
			s.segments[i*s.n+j] = seg
			s.segments[j*s.n+i] = seg

			s.queue.push(candidate{a: i, b: j, weight: w}, w)
		}
	}
	s.penalty = math.Floor(maxWeight) + 1
}

// edgeWeight is the Euclidean distance inflated by the climb ratio of the
// connection scaled by aspect.
func edgeWeight(a, b v3.Vec, aspect float64) float64 {
	d := a.Sub(b)
	dist := d.Length()
	horizontal := math.Sqrt(d.X*d.X + d.Z*d.Z)

	var ratio float64
	switch {
	case d.Y == 0:
		ratio = 0
	case horizontal == 0:
		ratio = maxElevationRatio
	default:
		ratio = geom.Clamp(math.Abs(d.Y)/horizontal, 0, maxElevationRatio)
	}
	return dist + dist*ratio*aspect
}

// ---------------------------------------------------------------------------
// Selection (modified Prim's with intersection avoidance)
// ---------------------------------------------------------------------------

func (s *synthesizer) target() int {
	return max(s.n-1, s.p.ConnectionCount)
}

func (s *synthesizer) treeComplete() bool {
	return s.accepted >= s.n-1
}

func (s *synthesizer) bridges(c candidate) bool {
	return s.visited[c.a] != s.visited[c.b]
}

func (s *synthesizer) selectConnections() {
	stuck := false
	for s.accepted < s.target() {
		if s.accepted > s.n-1 || (len(s.buffer) > 0 && s.queue.Len() == 0 && !stuck) {
			stuck = true
			s.flushBuffer()
		}

		cur, ok := s.queue.pop()
		if !ok {
			break
		}

		if !s.bridges(cur) && s.accepted != 0 && !s.treeComplete() {
			s.buffer = append(s.buffer, cur)
			continue
		}

		if !s.p.TestIntersections {
			s.accept(cur)
			stuck = false
			continue
		}

		count, valid := s.intersections(cur)
		if !valid {
			stuck = false
			continue
		}
		if count != 0 && !cur.reshuffled {
			stuck = false
			cur.reshuffled = true
			s.queue.push(cur, cur.weight+s.penalty*float64(count))
			continue
		}

		s.accept(cur)
		stuck = false
	}
}

// intersections counts candidate segments, not touching c's endpoints, that
// pass within the threshold radius of c. valid is false when any of them is
// already an accepted connection.
func (s *synthesizer) intersections(c candidate) (count int, valid bool) {
	valid = true
	seg := s.segments[c.a*s.n+c.b]
	for x := 0; x < s.n; x++ {
		if x == c.a || x == c.b {
			continue
		}
		for y := x + 1; y < s.n; y++ {
			if y == c.a || y == c.b {
				continue
			}
			if geom.DistanceSegmentToSegment(seg, s.segments[x*s.n+y]) < s.p.ThresholdRadius {
				count++
				if s.adjacency[x*s.n+y] != 0 {
					valid = false
				}
			}
		}
	}
	return count, valid
}

func (s *synthesizer) accept(c candidate) {
	s.visited[c.a] = true
	s.visited[c.b] = true
	s.adjacency[c.a*s.n+c.b] = 1
	s.adjacency[c.b*s.n+c.a] = 1
	s.accepted++

	kept := s.buffer[:0]
	for _, item := range s.buffer {
		if s.bridges(item) {
			s.queue.push(item, item.weight)
		} else {
			kept = append(kept, item)
		}
	}
	s.buffer = kept
}

func (s *synthesizer) flushBuffer() {
	for _, item := range s.buffer {
		s.queue.push(item, item.weight)
	}
	s.buffer = s.buffer[:0]
}

// completeTree connects any node selection left unvisited, which happens when
// every remaining bridging candidate crossed an accepted connection. The
// cheapest bridging edge is taken regardless of intersections.
func (s *synthesizer) completeTree() {
	forced := 0
	for {
		best := candidate{a: -1}
		bestWeight := math.Inf(1)
		for i := 0; i < s.n; i++ {
			for j := i + 1; j < s.n; j++ {
				if s.adjacency[i*s.n+j] != 0 {
					continue
				}
				c := candidate{a: i, b: j}
				if !s.bridges(c) {
					continue
				}
				if w := s.weights.At(i, j); w < bestWeight {
					best, bestWeight = c, w
				}
			}
		}
		if best.a < 0 {
			break
		}
		best.weight = bestWeight
		s.accept(best)
		forced++
	}
	if forced > 0 {
		s.logger.Warn("graph: forced intersecting connections to reach every node",
			"forced", forced, "nodes", s.n)
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// String summarises the graph for logs.
func (g *Graph) String() string {
	return fmt.Sprintf("graph(nodes=%d, edges=%d)", len(g.Nodes), len(g.Edges()))
}
