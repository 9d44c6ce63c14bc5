package graph

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultSeparationAttempts is the number of samples tried per node before the
// last one is accepted regardless of separation. The separation threshold
// decays linearly to zero over these attempts.
const DefaultSeparationAttempts = 10

// Sentinel errors for parameter validation.
var (
	ErrInvalidBounds = errors.New("graph: lower bounds corner exceeds upper corner")
	ErrNegativeCount = errors.New("graph: node and connection counts must not be negative")
	ErrInvalidRadius = errors.New("graph: threshold radius must not be negative")
)

// Params controls node placement and connection selection.
type Params struct {
	BoundsMin v3.Vec `yaml:"bounds_min"`
	BoundsMax v3.Vec `yaml:"bounds_max"`

	// PresetNodes are copied verbatim ahead of the randomly placed ones.
	PresetNodes []v3.Vec `yaml:"preset_nodes"`

	// NodeCount is the number of randomly placed nodes in addition to presets.
	NodeCount int `yaml:"node_count"`

	// ConnectionCount is the desired number of connections. The generated
	// graph always spans every node, so at least NodeCount-1 are produced.
	ConnectionCount int `yaml:"connection_count"`

	Seed               int64   `yaml:"seed"`
	Separation         float64 `yaml:"separation"`
	SeparationAttempts int     `yaml:"separation_attempts"`

	TestIntersections bool    `yaml:"test_intersections"`
	ThresholdRadius   float64 `yaml:"threshold_radius"`

	// ElevationAspect scales weights by the climb angle of a connection.
	// Higher values favour flatter tunnels.
	ElevationAspect float64 `yaml:"elevation_aspect"`
}

// DefaultParams returns the stock generator settings.
func DefaultParams() Params {
	return Params{
		BoundsMin:          v3.Vec{X: -8, Y: -8, Z: -8},
		BoundsMax:          v3.Vec{X: 8, Y: 8, Z: 8},
		SeparationAttempts: DefaultSeparationAttempts,
		TestIntersections:  true,
		ThresholdRadius:    3,
	}
}

// TotalNodes returns the number of nodes synthesis will produce.
func (p Params) TotalNodes() int {
	return len(p.PresetNodes) + p.NodeCount
}

// Validate checks the parameters for values synthesis cannot work with.
func (p Params) Validate() error {
	if p.BoundsMin.X > p.BoundsMax.X || p.BoundsMin.Y > p.BoundsMax.Y || p.BoundsMin.Z > p.BoundsMax.Z {
		return fmt.Errorf("%w: min %v, max %v", ErrInvalidBounds, p.BoundsMin, p.BoundsMax)
	}
	if p.NodeCount < 0 || p.ConnectionCount < 0 {
		return fmt.Errorf("%w: nodes %d, connections %d", ErrNegativeCount, p.NodeCount, p.ConnectionCount)
	}
	if p.ThresholdRadius < 0 {
		return fmt.Errorf("%w: %f", ErrInvalidRadius, p.ThresholdRadius)
	}
	return nil
}
