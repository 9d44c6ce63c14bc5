package ease

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/tunnel3d/pkg/engine"
)

func TestDefaultCurve(t *testing.T) {
	c := DefaultCurve()
	tests := []struct {
		x, want float64
	}{
		{-1, 1},
		{0, 1},
		{0.6, 1},
		{0.8, 0.5},
		{1, 0},
		{2, 0},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, c.Sample(tc.x), 1e-12, "x=%v", tc.x)
	}
}

func TestNewCurve_SortsPoints(t *testing.T) {
	c, err := NewCurve(Point{X: 1, Y: 0}, Point{X: 0, Y: 1}, Point{X: 0.5, Y: 0.2})
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 1}, {0.5, 0.2}, {1, 0}}, c.Points())
	assert.InDelta(t, 0.6, c.Sample(0.25), 1e-12)
	assert.InDelta(t, 0.1, c.Sample(0.75), 1e-12)
}

func TestNewCurve_Errors(t *testing.T) {
	_, err := NewCurve()
	require.ErrorIs(t, err, ErrNoPoints)
}

func TestCurve_SinglePoint(t *testing.T) {
	c, err := NewCurve(Point{X: 0.3, Y: 0.7})
	require.NoError(t, err)
	assert.Equal(t, 0.7, c.Sample(0))
	assert.Equal(t, 0.7, c.Sample(1))
}

func TestLinearAndInvert(t *testing.T) {
	assert.Equal(t, 0.25, Linear.Sample(0.25))
	assert.Equal(t, 0.75, Invert.Sample(0.25))
}

func TestTable(t *testing.T) {
	tbl, err := Bake(Invert, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())
	assert.InDelta(t, 1, tbl.Sample(0), 1e-12)
	assert.InDelta(t, 0.6, tbl.Sample(0.4), 1e-12)
	assert.InDelta(t, 0, tbl.Sample(1), 1e-12)
	assert.InDelta(t, 0, tbl.Sample(3), 1e-12)
	assert.InDelta(t, 1, tbl.Sample(-3), 1e-12)

	_, err = Bake(Linear, 1)
	require.Error(t, err)
	_, err = NewTable([]float64{1})
	require.Error(t, err)
}

func TestScript(t *testing.T) {
	tbl, err := Script(engine.NewEngine(), "(- 1.0 x)", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultScriptSamples, tbl.Len())
	for _, x := range []float64{0, 0.1, 0.5, 0.93, 1} {
		assert.InDelta(t, 1-x, tbl.Sample(x), 1e-6, "x=%v", x)
	}
}

func TestScript_EvalError(t *testing.T) {
	_, err := Script(engine.NewEngine(), "(+ x", 8)
	require.ErrorIs(t, err, ErrScriptEval)
}
