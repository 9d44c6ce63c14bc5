// Package config loads tunnel generation settings from YAML and turns them
// into the parameters of each pipeline stage.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"

	"github.com/chazu/tunnel3d/pkg/ease"
	"github.com/chazu/tunnel3d/pkg/engine"
	"github.com/chazu/tunnel3d/pkg/field"
	"github.com/chazu/tunnel3d/pkg/geom"
	"github.com/chazu/tunnel3d/pkg/graph"
	"github.com/chazu/tunnel3d/pkg/noise"
	"github.com/chazu/tunnel3d/pkg/tessellate"
)

// Ease curve kinds.
const (
	EaseCurve  = "curve"
	EaseLinear = "linear"
	EaseInvert = "invert"
	EaseScript = "script"
)

// ErrUnknownEase is returned for an ease kind other than the ones above.
var ErrUnknownEase = errors.New("config: unknown ease kind")

// Config is the full set of generation settings.
type Config struct {
	Graph graph.Params      `yaml:"graph"`
	Field FieldConfig       `yaml:"field"`
	Mesh  tessellate.Params `yaml:"mesh"`
}

// FieldConfig holds the rasterizer settings in serializable form.
type FieldConfig struct {
	Volume       v3.Vec      `yaml:"volume"`
	Chunks       field.Dims  `yaml:"chunks"`
	ChunkVoxels  field.Dims  `yaml:"chunk_voxels"`
	TunnelRadius float64     `yaml:"tunnel_radius"`
	Workers      int         `yaml:"workers"`
	Ease         EaseConfig  `yaml:"ease"`
	Noise        NoiseConfig `yaml:"noise"`
}

// EaseConfig selects the falloff curve.
type EaseConfig struct {
	Kind    string       `yaml:"kind"`
	Points  []ease.Point `yaml:"points"`
	Script  string       `yaml:"script"`
	Samples int          `yaml:"samples"`
}

// NoiseConfig roughens tunnel walls. Zero intensity disables noise.
type NoiseConfig struct {
	Seed      int64   `yaml:"seed"`
	Frequency float64 `yaml:"frequency"`
	Intensity float64 `yaml:"intensity"`
}

// Default returns the stock settings: a 16³ volume of 4³ chunks with 8³
// voxels each, nodes within ±8, unit tunnel radius and the default curve.
func Default() *Config {
	fp := field.DefaultParams()
	return &Config{
		Graph: graph.DefaultParams(),
		Field: FieldConfig{
			Volume:       fp.Volume,
			Chunks:       fp.Chunks,
			ChunkVoxels:  fp.ChunkVoxels,
			TunnelRadius: fp.TunnelRadius,
			Ease: EaseConfig{
				Kind:   EaseCurve,
				Points: ease.DefaultCurve().Points(),
			},
			Noise: NoiseConfig{Frequency: 1},
		},
		Mesh: tessellate.DefaultParams(),
	}
}

// Load reads the YAML file at path over the defaults, then normalizes and
// validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode is Load for an already open reader. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize clamps values into their usable ranges: volume and radii are
// non-negative, grid dimensions at least one, iso-level and noise intensity
// within [0, 1].
func (c *Config) Normalize() {
	g := &c.Graph
	g.NodeCount = max(g.NodeCount, 0)
	g.ConnectionCount = max(g.ConnectionCount, 0)
	g.ThresholdRadius = math.Max(g.ThresholdRadius, 0)
	g.Separation = math.Max(g.Separation, 0)
	if g.SeparationAttempts <= 0 {
		g.SeparationAttempts = graph.DefaultSeparationAttempts
	}

	f := &c.Field
	f.Volume = f.Volume.Max(v3.Vec{})
	f.Chunks = atLeastOne(f.Chunks)
	f.ChunkVoxels = atLeastOne(f.ChunkVoxels)
	f.TunnelRadius = math.Max(f.TunnelRadius, 0)
	f.Noise.Intensity = geom.Clamp(f.Noise.Intensity, 0, 1)
	if f.Ease.Kind == "" {
		f.Ease.Kind = EaseCurve
	}

	c.Mesh.IsoLevel = geom.Clamp(c.Mesh.IsoLevel, 0, 1)
}

func atLeastOne(d field.Dims) field.Dims {
	return field.Dims{X: max(d.X, 1), Y: max(d.Y, 1), Z: max(d.Z, 1)}
}

// Validate reports settings no stage can run with.
func (c *Config) Validate() error {
	if err := c.Graph.Validate(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	f := c.Field
	if f.Volume.X <= 0 || f.Volume.Y <= 0 || f.Volume.Z <= 0 {
		return fmt.Errorf("field.volume: %w: %v", field.ErrInvalidDimensions, f.Volume)
	}
	if f.TunnelRadius <= 0 {
		return fmt.Errorf("field.tunnel_radius: %w", field.ErrInvalidRadius)
	}
	switch f.Ease.Kind {
	case EaseCurve:
		if len(f.Ease.Points) == 0 {
			return fmt.Errorf("field.ease.points: %w", ease.ErrNoPoints)
		}
	case EaseScript:
		if f.Ease.Script == "" {
			return errors.New("field.ease.script must be set for kind script")
		}
	case EaseLinear, EaseInvert:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEase, f.Ease.Kind)
	}
	if err := c.Mesh.Validate(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	return nil
}

// GraphParams returns the synthesizer settings.
func (c *Config) GraphParams() graph.Params {
	p := c.Graph
	p.PresetNodes = append([]v3.Vec(nil), c.Graph.PresetNodes...)
	return p
}

// FieldParams builds the rasterizer settings. Script curves are baked with
// eng, which may be nil for other kinds.
func (c *Config) FieldParams(eng *engine.Engine) (field.Params, error) {
	f := c.Field
	p := field.Params{
		Volume:         f.Volume,
		Chunks:         f.Chunks,
		ChunkVoxels:    f.ChunkVoxels,
		TunnelRadius:   f.TunnelRadius,
		NoiseIntensity: f.Noise.Intensity,
		Workers:        f.Workers,
	}

	e, err := c.easeFunc(eng)
	if err != nil {
		return field.Params{}, err
	}
	p.Ease = e

	if f.Noise.Intensity > 0 {
		p.Noise = noise.NewSimplex(f.Noise.Seed, f.Noise.Frequency)
	}
	return p, nil
}

func (c *Config) easeFunc(eng *engine.Engine) (ease.Func, error) {
	e := c.Field.Ease
	switch e.Kind {
	case EaseCurve, "":
		curve, err := ease.NewCurve(e.Points...)
		if err != nil {
			return nil, err
		}
		return curve, nil
	case EaseLinear:
		return ease.Linear, nil
	case EaseInvert:
		return ease.Invert, nil
	case EaseScript:
		if eng == nil {
			eng = engine.NewEngine()
		}
		table, err := ease.Script(eng, e.Script, e.Samples)
		if err != nil {
			return nil, err
		}
		return table, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, e.Kind)
}

// MeshParams returns the extractor settings.
func (c *Config) MeshParams() tessellate.Params {
	return c.Mesh
}
