// Package noise supplies the 3D noise used to roughen tunnel walls.
package noise

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ojrac/opensimplex-go"
)

// Sampler returns a value in [-1, 1] for a point in space. Implementations
// must be safe for concurrent use.
type Sampler interface {
	Sample(p v3.Vec) float64
}

// Simplex is OpenSimplex noise scaled by Frequency.
type Simplex struct {
	Frequency float64
	noise     opensimplex.Noise
}

// NewSimplex returns normalized OpenSimplex noise seeded with seed.
func NewSimplex(seed int64, frequency float64) *Simplex {
	if frequency == 0 {
		frequency = 1
	}
	return &Simplex{
		Frequency: frequency,
		noise:     opensimplex.NewNormalized(seed),
	}
}

// Sample maps the normalized [0, 1] noise onto [-1, 1].
func (s *Simplex) Sample(p v3.Vec) float64 {
	f := s.Frequency
	return s.noise.Eval3(p.X*f, p.Y*f, p.Z*f)*2 - 1
}

// Constant is a Sampler that returns the same value everywhere.
type Constant float64

func (c Constant) Sample(v3.Vec) float64 { return float64(c) }
