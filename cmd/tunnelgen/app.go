package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chazu/tunnel3d/pkg/config"
	"github.com/chazu/tunnel3d/pkg/graph"
	"github.com/chazu/tunnel3d/pkg/kernel"
	"github.com/chazu/tunnel3d/pkg/kernel/sdfx"
	"github.com/chazu/tunnel3d/pkg/metrics"
	"github.com/chazu/tunnel3d/pkg/pipeline"
)

// Preview modes.
const (
	PreviewField   = "field"
	PreviewNetwork = "network"
)

var errNotGenerated = errors.New("nothing generated yet")

// App runs the generation pipeline and writes its outputs.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	kernel   kernel.Kernel
	result   *pipeline.Result
}

// ChunkData summarizes one chunk mesh.
type ChunkData struct {
	Chunk     int        `json:"chunk"`
	Origin    [3]float64 `json:"origin"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	File      string     `json:"file,omitempty"`
}

// Summary is the report printed after a run.
type Summary struct {
	RunID         string      `json:"runId"`
	Nodes         int         `json:"nodes"`
	Connections   int         `json:"connections"`
	Intersections int         `json:"intersections"`
	Voxels        int         `json:"voxels"`
	Occupied      int         `json:"occupied"`
	EmptyChunks   int         `json:"emptyChunks"`
	Chunks        []ChunkData `json:"chunks"`
	Warnings      []string    `json:"warnings"`
}

// NewApp creates an App for cfg with the sdfx kernel for previews.
func NewApp(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(m)),
		kernel:   sdfx.New(),
	}
}

// Generate runs every stage and summarizes the result. Only non-empty
// chunks are listed.
func (a *App) Generate(ctx context.Context) (*Summary, error) {
	res, err := a.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	a.result = res

	s := &Summary{
		RunID:       res.RunID.String(),
		Nodes:       res.Graph.NodeCount(),
		Connections: len(res.Graph.Edges()),
		Voxels:      len(res.Grid.Data),
		Occupied:    res.Grid.Occupied(),
		Chunks:      []ChunkData{},
		Warnings:    []string{},
	}
	if a.cfg.Graph.ThresholdRadius > 0 {
		s.Intersections = res.Graph.IntersectionCount(a.cfg.Graph.ThresholdRadius)
	}
	for _, w := range graph.Validate(res.Graph, a.cfg.Graph.ThresholdRadius).Warnings {
		s.Warnings = append(s.Warnings, w.Message)
	}
	for _, m := range res.Meshes {
		if m.IsEmpty() {
			s.EmptyChunks++
			continue
		}
		s.Chunks = append(s.Chunks, ChunkData{
			Chunk:     m.Chunk,
			Origin:    [3]float64{m.Origin.X, m.Origin.Y, m.Origin.Z},
			Vertices:  m.VertexCount(),
			Triangles: m.TriangleCount(),
		})
	}
	return s, nil
}

// WriteChunks writes every non-empty chunk mesh as chunk_NNN.obj in dir and
// records the file names in s.
func (a *App) WriteChunks(dir string, s *Summary) error {
	if a.result == nil {
		return errNotGenerated
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	files := make(map[int]string)
	for _, m := range a.result.Meshes {
		if m.IsEmpty() {
			continue
		}
		name := fmt.Sprintf("chunk_%03d", m.Chunk)
		path := filepath.Join(dir, name+".obj")
		if err := kernel.SaveOBJ(path, name, m); err != nil {
			return err
		}
		files[m.Chunk] = path
	}
	for i := range s.Chunks {
		s.Chunks[i].File = files[s.Chunks[i].Chunk]
	}
	a.logger.Info("chunks written", "dir", dir, "files", len(files))
	return nil
}

// WritePreview writes the whole network as one STL. PreviewField meshes the
// rasterized grid; PreviewNetwork unions a capsule per connection, clipped
// to the volume.
func (a *App) WritePreview(path, mode string, cells int) error {
	if a.result == nil {
		return errNotGenerated
	}
	var s kernel.Solid
	switch mode {
	case PreviewField:
		s = a.kernel.Field(a.result.Grid, a.cfg.Mesh.IsoLevel)
	case PreviewNetwork:
		s = kernel.Network(a.kernel, a.result.Graph, a.cfg.Field.TunnelRadius)
		if s == nil {
			return errors.New("network has no connections to preview")
		}
		s = a.kernel.Intersection(s, kernel.VolumeBox(a.kernel, a.cfg.Field.Volume))
	default:
		return fmt.Errorf("unknown preview mode %q", mode)
	}
	if err := a.kernel.WriteSTL(s, cells, path); err != nil {
		return err
	}
	a.logger.Info("preview written", "path", path, "mode", mode)
	return nil
}
