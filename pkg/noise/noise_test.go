package noise

import (
	"sync"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func TestSimplex_Range(t *testing.T) {
	s := NewSimplex(1, 0.37)
	for i := 0; i < 2000; i++ {
		p := v3.Vec{X: float64(i) * 0.13, Y: float64(i%17) * 0.71, Z: float64(i%5) * -1.9}
		v := s.Sample(p)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestSimplex_Deterministic(t *testing.T) {
	a := NewSimplex(42, 1)
	b := NewSimplex(42, 1)
	c := NewSimplex(43, 1)

	p := v3.Vec{X: 1.25, Y: -3.5, Z: 0.75}
	assert.Equal(t, a.Sample(p), b.Sample(p))

	differs := false
	for i := 0; i < 10 && !differs; i++ {
		q := p.Add(v3.Vec{X: float64(i) * 0.31})
		differs = a.Sample(q) != c.Sample(q)
	}
	assert.True(t, differs, "different seeds should produce different noise")
}

func TestSimplex_DefaultFrequency(t *testing.T) {
	assert.Equal(t, 1.0, NewSimplex(0, 0).Frequency)
}

func TestSimplex_Concurrent(t *testing.T) {
	s := NewSimplex(7, 2)
	p := v3.Vec{X: 0.5, Y: 0.25, Z: 0.125}
	want := s.Sample(p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.Sample(p))
		}()
	}
	wg.Wait()
}

func TestConstant(t *testing.T) {
	assert.Equal(t, -0.5, Constant(-0.5).Sample(v3.Vec{X: 9}))
}
