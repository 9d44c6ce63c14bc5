// Package pipeline runs the generation stages in order: graph synthesis,
// field rasterization, then mesh extraction. Only one stage runs at a time;
// a request made while a stage is running is rejected with ErrBusy.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chazu/tunnel3d/pkg/config"
	"github.com/chazu/tunnel3d/pkg/engine"
	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/graph"
	"github.com/chazu/tunnel3d/pkg/kernel"
	"github.com/chazu/tunnel3d/pkg/metrics"
	"github.com/chazu/tunnel3d/pkg/tessellate"
)

// Sentinel errors.
var (
	ErrBusy    = errors.New("pipeline: a stage is already running")
	ErrNoGraph = errors.New("pipeline: no graph has been generated")
	ErrNoField = errors.New("pipeline: no field has been rasterized")
)

// State is the stage the pipeline is currently running.
type State int

const (
	Idle State = iota
	RunningGraph
	RunningField
	RunningMesh
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RunningGraph:
		return "running-graph"
	case RunningField:
		return "running-field"
	case RunningMesh:
		return "running-mesh"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the output of a complete run.
type Result struct {
	RunID  uuid.UUID
	Graph  *graph.Graph
	Grid   *field.Grid
	Meshes []*kernel.Mesh
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger passed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMetrics sets the collectors stage timings and counts are recorded in.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithEngine sets the interpreter used to bake scripted ease curves.
func WithEngine(e *engine.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// OnFinished registers fn to be called after meshes have been extracted,
// outside any lock.
func OnFinished(fn func(Result)) Option {
	return func(p *Pipeline) { p.onFinished = fn }
}

// Pipeline owns the outputs of the most recent stages. Each stage replaces
// its output and discards everything downstream of it.
type Pipeline struct {
	cfg        *config.Config
	engine     *engine.Engine
	logger     *slog.Logger
	metrics    *metrics.Metrics
	onFinished func(Result)

	mu     sync.Mutex
	state  State
	runID  uuid.UUID
	graph  *graph.Graph
	grid   *field.Grid
	meshes []*kernel.Mesh
}

// New returns an idle pipeline for cfg. Without WithMetrics the collectors
// are registered on a private registry.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = metrics.New(prometheus.NewRegistry())
	}
	if p.engine == nil {
		p.engine = engine.NewEngine()
	}
	return p
}

// State returns the stage currently running.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Graph returns the last synthesized graph, or nil.
func (p *Pipeline) Graph() *graph.Graph {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.graph
}

// Grid returns the last rasterized grid, or nil.
func (p *Pipeline) Grid() *field.Grid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid
}

// Meshes returns the last extracted chunk meshes, or nil.
func (p *Pipeline) Meshes() []*kernel.Mesh {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.meshes
}

// ---------------------------------------------------------------------------
// Stage control
// ---------------------------------------------------------------------------

// begin moves an idle pipeline into s.
func (p *Pipeline) begin(s State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		p.metrics.Runs.WithLabelValues("busy").Inc()
		return fmt.Errorf("%w: %s", ErrBusy, p.state)
	}
	p.state = s
	p.runID = uuid.New()
	return nil
}

func (p *Pipeline) advance(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// finish returns the pipeline to Idle. On failure every output is dropped.
func (p *Pipeline) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Idle
	if err != nil {
		p.graph, p.grid, p.meshes = nil, nil, nil
		p.metrics.Runs.WithLabelValues("failed").Inc()
		return
	}
	p.metrics.Runs.WithLabelValues("ok").Inc()
}

func (p *Pipeline) log() *slog.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger.With("run", p.runID.String())
}

// Run executes every stage and returns their outputs.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.begin(RunningGraph); err != nil {
		return nil, err
	}
	log := p.log()
	start := time.Now()
	log.Info("pipeline: run started")

	res, err := p.run(ctx, log)
	p.finish(err)
	if err != nil {
		log.Error("pipeline: run failed", "err", err)
		return nil, err
	}
	log.Info("pipeline: run finished", "duration", time.Since(start))
	p.notify(*res)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger) (*Result, error) {
	g, err := p.synthesize(ctx, log)
	if err != nil {
		return nil, err
	}
	p.advance(RunningField)
	grid, err := p.rasterize(ctx, log, g)
	if err != nil {
		return nil, err
	}
	p.advance(RunningMesh)
	meshes, err := p.extract(ctx, log, grid)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return &Result{RunID: p.runID, Graph: g, Grid: grid, Meshes: meshes}, nil
}

// GenerateGraph runs graph synthesis alone. The previous grid and meshes
// are discarded.
func (p *Pipeline) GenerateGraph(ctx context.Context) (*graph.Graph, error) {
	if err := p.begin(RunningGraph); err != nil {
		return nil, err
	}
	g, err := p.synthesize(ctx, p.log())
	p.finish(err)
	return g, err
}

// RasterizeField rasterizes the current graph. The previous meshes are
// discarded.
func (p *Pipeline) RasterizeField(ctx context.Context) (*field.Grid, error) {
	if err := p.begin(RunningField); err != nil {
		return nil, err
	}
	g := p.Graph()
	if g == nil {
		p.finishKeep()
		return nil, ErrNoGraph
	}
	grid, err := p.rasterize(ctx, p.log(), g)
	p.finish(err)
	return grid, err
}

// ExtractMeshes meshes the current grid.
func (p *Pipeline) ExtractMeshes(ctx context.Context) ([]*kernel.Mesh, error) {
	if err := p.begin(RunningMesh); err != nil {
		return nil, err
	}
	grid := p.Grid()
	if grid == nil {
		p.finishKeep()
		return nil, ErrNoField
	}
	meshes, err := p.extract(ctx, p.log(), grid)
	p.finish(err)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	res := Result{RunID: p.runID, Graph: p.graph, Grid: p.grid, Meshes: meshes}
	p.mu.Unlock()
	p.notify(res)
	return meshes, nil
}

// finishKeep returns to Idle without touching outputs, for requests that
// were refused before any stage ran.
func (p *Pipeline) finishKeep() {
	p.mu.Lock()
	p.state = Idle
	p.mu.Unlock()
}

func (p *Pipeline) notify(res Result) {
	if p.onFinished != nil {
		p.onFinished(res)
	}
}

// ---------------------------------------------------------------------------
// Stages
// ---------------------------------------------------------------------------

func (p *Pipeline) synthesize(ctx context.Context, log *slog.Logger) (g *graph.Graph, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(metrics.StageGraph, start, err) }()

	g, err = graph.Synthesize(ctx, p.cfg.GraphParams(), graph.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("pipeline: graph: %w", err)
	}

	edges := len(g.Edges())
	res := graph.Validate(g, p.cfg.Graph.ThresholdRadius)
	if !res.OK() {
		return nil, fmt.Errorf("pipeline: graph: %w", res.Errors[0])
	}
	for _, w := range res.Warnings {
		log.Warn("pipeline: graph warning", "node", w.Node, "warning", w.Message)
	}
	p.metrics.Nodes.Set(float64(g.NodeCount()))
	p.metrics.Connections.Set(float64(edges))
	log.Info("pipeline: graph generated",
		"stage", metrics.StageGraph, "nodes", g.NodeCount(), "connections", edges,
		"duration", time.Since(start))

	p.mu.Lock()
	p.graph, p.grid, p.meshes = g, nil, nil
	p.mu.Unlock()
	return g, nil
}

func (p *Pipeline) rasterize(ctx context.Context, log *slog.Logger, g *graph.Graph) (grid *field.Grid, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(metrics.StageField, start, err) }()

	params, err := p.cfg.FieldParams(p.engine)
	if err != nil {
		return nil, fmt.Errorf("pipeline: field: %w", err)
	}
	grid, err = field.Rasterize(ctx, g, params, field.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("pipeline: field: %w", err)
	}

	occupied := grid.Occupied()
	p.metrics.VoxelsOccupied.Set(float64(occupied))
	log.Info("pipeline: field rasterized",
		"stage", metrics.StageField, "voxels", len(grid.Data), "occupied", occupied,
		"duration", time.Since(start))

	p.mu.Lock()
	p.grid, p.meshes = grid, nil
	p.mu.Unlock()
	return grid, nil
}

func (p *Pipeline) extract(ctx context.Context, log *slog.Logger, grid *field.Grid) (meshes []*kernel.Mesh, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(metrics.StageMesh, start, err) }()

	meshes, err = tessellate.Extract(ctx, grid, p.cfg.MeshParams())
	if err != nil {
		return nil, fmt.Errorf("pipeline: mesh: %w", err)
	}

	empty, triangles := 0, 0
	for _, m := range meshes {
		if m.IsEmpty() {
			empty++
		}
		triangles += m.TriangleCount()
	}
	p.metrics.ChunkMeshes.WithLabelValues("empty").Add(float64(empty))
	p.metrics.ChunkMeshes.WithLabelValues("surface").Add(float64(len(meshes) - empty))
	p.metrics.Triangles.Set(float64(triangles))
	log.Info("pipeline: meshes extracted",
		"stage", metrics.StageMesh, "chunks", len(meshes), "empty", empty, "triangles", triangles,
		"duration", time.Since(start))

	p.mu.Lock()
	p.meshes = meshes
	p.mu.Unlock()
	return meshes, nil
}
