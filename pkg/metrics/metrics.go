// Package metrics exposes Prometheus instrumentation for the generation
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage labels.
const (
	StageGraph = "graph"
	StageField = "field"
	StageMesh  = "mesh"
)

// Metrics groups the pipeline collectors. Build one per registry with New.
type Metrics struct {
	// StageDuration measures how long each stage takes.
	StageDuration *prometheus.HistogramVec

	// StageFailures counts stages that returned an error.
	StageFailures *prometheus.CounterVec

	// Runs counts generation requests by outcome: ok, failed or busy.
	Runs *prometheus.CounterVec

	// Nodes and Connections describe the last synthesized graph.
	Nodes       prometheus.Gauge
	Connections prometheus.Gauge

	// VoxelsOccupied is the number of non-zero voxels in the last grid.
	VoxelsOccupied prometheus.Gauge

	// ChunkMeshes counts extracted chunk meshes by state: empty or surface.
	ChunkMeshes *prometheus.CounterVec

	// Triangles is the triangle count of the last extraction.
	Triangles prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tunnel3d_stage_duration_seconds",
				Help: "Duration of pipeline stages in seconds",
				// Small grids finish in microseconds, dense ones in seconds.
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),
		StageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunnel3d_stage_failures_total",
				Help: "Total number of pipeline stages that failed",
			},
			[]string{"stage"},
		),
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunnel3d_runs_total",
				Help: "Total number of generation requests by outcome",
			},
			[]string{"outcome"},
		),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "tunnel3d_graph_nodes",
			Help: "Number of nodes in the last synthesized graph",
		}),
		Connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "tunnel3d_graph_connections",
			Help: "Number of accepted connections in the last synthesized graph",
		}),
		VoxelsOccupied: f.NewGauge(prometheus.GaugeOpts{
			Name: "tunnel3d_field_voxels_occupied",
			Help: "Number of non-zero voxels in the last rasterized grid",
		}),
		ChunkMeshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tunnel3d_chunk_meshes_total",
				Help: "Total number of extracted chunk meshes by state",
			},
			[]string{"state"},
		),
		Triangles: f.NewGauge(prometheus.GaugeOpts{
			Name: "tunnel3d_mesh_triangles",
			Help: "Number of triangles in the last extraction",
		}),
	}
}

// ObserveStage records the duration of a stage started at start, and a
// failure when err is non-nil.
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}
