// Package geom provides the closest-distance primitives shared by graph
// synthesis and density rasterization. All positions are sdfx vectors.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segment is the bounded straight line between two node positions.
type Segment struct {
	Origin   v3.Vec
	Endpoint v3.Vec
}

// NewSegment returns the segment from a to b.
func NewSegment(a, b v3.Vec) Segment {
	return Segment{Origin: a, Endpoint: b}
}

// Direction returns Endpoint - Origin.
func (s Segment) Direction() v3.Vec {
	return s.Endpoint.Sub(s.Origin)
}

// Length returns the distance between the segment's endpoints.
func (s Segment) Length() float64 {
	return s.Direction().Length()
}

// Degenerate reports whether the segment has zero length.
func (s Segment) Degenerate() bool {
	d := s.Direction()
	return d.X == 0 && d.Y == 0 && d.Z == 0
}

// At returns the point at parameter t along the segment, with t clamped to [0,1].
func (s Segment) At(t float64) v3.Vec {
	return s.Origin.Add(s.Direction().MulScalar(clamp01(t)))
}

// Bounds returns the axis-aligned bounding box of the segment inflated by pad
// on every side.
func (s Segment) Bounds(pad float64) sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{
			X: math.Min(s.Origin.X, s.Endpoint.X) - pad,
			Y: math.Min(s.Origin.Y, s.Endpoint.Y) - pad,
			Z: math.Min(s.Origin.Z, s.Endpoint.Z) - pad,
		},
		Max: v3.Vec{
			X: math.Max(s.Origin.X, s.Endpoint.X) + pad,
			Y: math.Max(s.Origin.Y, s.Endpoint.Y) + pad,
			Z: math.Max(s.Origin.Z, s.Endpoint.Z) + pad,
		},
	}
}

// DistancePointToPoint returns the Euclidean norm of b - a.
func DistancePointToPoint(a, b v3.Vec) float64 {
	return b.Sub(a).Length()
}

// DistanceSegmentToPoint returns the distance from p to the closest point of seg.
// A zero-length segment is treated as a point.
func DistanceSegmentToPoint(seg Segment, p v3.Vec) float64 {
	d := seg.Direction()
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return DistancePointToPoint(seg.Origin, p)
	}
	t := d.Dot(p.Sub(seg.Origin)) / lenSq
	return DistancePointToPoint(seg.At(t), p)
}

// DistanceSegmentToSegment returns the minimum distance between two segments.
//
// The closest-approach parameters t (on s1) and u (on s2) come from setting the
// derivative of the squared distance to zero and solving the resulting 2x2
// system. Parallel or coincident segments make the system singular; those fall
// back to checking every endpoint against the opposite segment.
func DistanceSegmentToSegment(s1, s2 Segment) float64 {
	switch {
	case s1.Degenerate() && s2.Degenerate():
		return DistancePointToPoint(s1.Origin, s2.Origin)
	case s1.Degenerate():
		return DistanceSegmentToPoint(s2, s1.Origin)
	case s2.Degenerate():
		return DistanceSegmentToPoint(s1, s2.Origin)
	}

	t, u, ok := closestApproach(s1, s2)
	if !ok {
		return endpointDistance(s1, s2)
	}

	tPoint := s1.At(t)
	uPoint := s2.At(u)
	dist := DistancePointToPoint(tPoint, uPoint)

	// A clamped parameter means the true closest pair may sit at an endpoint,
	// so project the clamped point back onto the other segment.
	if u <= 0 || u >= 1 {
		dist = math.Min(dist, DistanceSegmentToPoint(s1, uPoint))
	}
	if t <= 0 || t >= 1 {
		dist = math.Min(dist, DistanceSegmentToPoint(s2, tPoint))
	}
	return dist
}

// closestApproach solves
//
//	(d1·d1) t - (d1·d2) u = d1·r
//	(d1·d2) t - (d2·d2) u = d2·r
//
// with r = o2 - o1. ok is false when the system is singular.
func closestApproach(s1, s2 Segment) (t, u float64, ok bool) {
	d1 := s1.Direction()
	d2 := s2.Direction()
	r := s2.Origin.Sub(s1.Origin)

	a := d1.Dot(d1)
	b := d1.Dot(d2)
	e := d2.Dot(d2)
	c := d1.Dot(r)
	f := d2.Dot(r)

	det := a*e - b*b
	// Relative tolerance: det is exactly |d1|²|d2|²sin²θ.
	if det <= 1e-12*a*e {
		return 0, 0, false
	}
	t = (c*e - b*f) / det
	u = (b*c - a*f) / det
	if math.IsNaN(t) || math.IsNaN(u) || math.IsInf(t, 0) || math.IsInf(u, 0) {
		return 0, 0, false
	}
	return t, u, true
}

// endpointDistance is the exhaustive fallback for parallel segments.
func endpointDistance(s1, s2 Segment) float64 {
	return math.Min(
		math.Min(DistanceSegmentToPoint(s2, s1.Origin), DistanceSegmentToPoint(s2, s1.Endpoint)),
		math.Min(DistanceSegmentToPoint(s1, s2.Origin), DistanceSegmentToPoint(s1, s2.Endpoint)),
	)
}

func clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp limits v to [lo, hi]. NaN is returned unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
