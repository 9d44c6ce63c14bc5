// Package ease provides the falloff curves that map a normalized distance
// from a tunnel's axis to a density value.
package ease

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/tunnel3d/pkg/engine"
	"github.com/chazu/tunnel3d/pkg/geom"
)

// DefaultScriptSamples is the lookup table size used for baked scripts.
const DefaultScriptSamples = 256

var (
	ErrNoPoints   = errors.New("ease: curve needs at least one point")
	ErrScriptEval = errors.New("ease: script evaluation failed")
)

// Func maps x in [0, 1] to a density value. Values outside [0, 1] are
// clamped by the caller.
type Func interface {
	Sample(x float64) float64
}

// FuncOf adapts a plain function to Func.
type FuncOf func(float64) float64

func (f FuncOf) Sample(x float64) float64 { return f(x) }

// Linear is the identity curve.
var Linear Func = FuncOf(func(x float64) float64 { return x })

// Invert is 1 - x: full density on the axis, none at the rim.
var Invert Func = FuncOf(func(x float64) float64 { return 1 - x })

// Point is a control point of a piecewise-linear curve.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Curve is a piecewise-linear curve through its points, held constant beyond
// the first and last point.
type Curve struct {
	points []Point
}

// NewCurve sorts points by X and returns the curve through them.
func NewCurve(points ...Point) (*Curve, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	ps := append([]Point(nil), points...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].X < ps[j].X })
	return &Curve{points: ps}, nil
}

// DefaultCurve is solid up to 60% of the radius, then fades linearly to
// nothing at the rim.
func DefaultCurve() *Curve {
	c, _ := NewCurve(Point{X: 0.6, Y: 1}, Point{X: 1, Y: 0})
	return c
}

// Points returns a copy of the control points.
func (c *Curve) Points() []Point {
	return append([]Point(nil), c.points...)
}

func (c *Curve) Sample(x float64) float64 {
	ps := c.points
	if x <= ps[0].X {
		return ps[0].Y
	}
	last := ps[len(ps)-1]
	if x >= last.X {
		return last.Y
	}
	i := sort.Search(len(ps), func(i int) bool { return ps[i].X >= x })
	a, b := ps[i-1], ps[i]
	if b.X == a.X {
		return b.Y
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + (b.Y-a.Y)*t
}

// Table samples a curve at evenly spaced points over [0, 1] and
// interpolates linearly between them.
type Table struct {
	samples []float64
}

// NewTable adopts samples taken at i/(len-1).
func NewTable(samples []float64) (*Table, error) {
	if len(samples) < engine.MinSamples {
		return nil, fmt.Errorf("ease: table needs at least %d samples, got %d", engine.MinSamples, len(samples))
	}
	return &Table{samples: append([]float64(nil), samples...)}, nil
}

// Bake samples f into a table of n entries.
func Bake(f Func, n int) (*Table, error) {
	if n < engine.MinSamples {
		return nil, fmt.Errorf("ease: table needs at least %d samples, got %d", engine.MinSamples, n)
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = f.Sample(float64(i) / float64(n-1))
	}
	return &Table{samples: samples}, nil
}

func (t *Table) Sample(x float64) float64 {
	x = geom.Clamp(x, 0, 1)
	pos := x * float64(len(t.samples)-1)
	i := int(pos)
	if i >= len(t.samples)-1 {
		return t.samples[len(t.samples)-1]
	}
	frac := pos - float64(i)
	return t.samples[i] + (t.samples[i+1]-t.samples[i])*frac
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.samples)
}

// Script evaluates a Lisp expression in x and bakes it into a Table, so the
// interpreter is not touched during rasterization. Evaluation errors are
// joined into a single error wrapping ErrScriptEval.
func Script(eng *engine.Engine, source string, samples int) (*Table, error) {
	if samples <= 0 {
		samples = DefaultScriptSamples
	}
	values, evalErrs, err := eng.Bake(source, samples)
	if err != nil {
		return nil, fmt.Errorf("ease: bake script: %w", err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrScriptEval, strings.Join(msgs, "; "))
	}
	return NewTable(values)
}
