package core

import (
	"fmt"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// orientCCW returns the ring wound counter-clockwise in lon/lat space,
// reversing it when the signed area is negative. A closed ring stays closed.
func orientCCW(ring model.Ring) model.Ring {
	if signedArea(ring) >= 0 {
		return ring
	}
	out := make(model.Ring, len(ring))
	for i, v := range ring {
		out[len(ring)-1-i] = v
	}
	return out
}

// signedArea computes the shoelace sum over the ring's lon/lat projection;
// positive means counter-clockwise.
func signedArea(ring model.Ring) float64 {
	var sum float64
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		sum += a.LonDeg*b.LatDeg - b.LonDeg*a.LatDeg
	}
	return sum / 2
}

// validateRing enforces the footprint invariants: the ring is closed, has
// enough vertices, stays inside the geodetic domain, and does not intersect
// itself in the lon/lat plane. Vertices may coincide where the band
// collapses onto the equatorial axis; only proper edge crossings and
// overlapping collinear edges are rejected.
func validateRing(tractID string, ring model.Ring) error {
	if len(ring) < 4 {
		return &model.GeometryError{
			TractID: tractID,
			Reason:  fmt.Sprintf("ring has %d vertices, need at least 4", len(ring)),
		}
	}
	if !ring.Closed() {
		return &model.GeometryError{TractID: tractID, Reason: "ring is not closed"}
	}
	for _, v := range ring {
		if v.LonDeg < -180 || v.LonDeg >= 180.0000001 || v.LatDeg < -90 || v.LatDeg > 90 {
			return &model.GeometryError{
				TractID: tractID,
				Reason:  fmt.Sprintf("vertex (%g, %g) outside geodetic domain", v.LonDeg, v.LatDeg),
			}
		}
	}
	if i, j, ok := selfIntersection(ring); ok {
		return &model.GeometryError{
			TractID: tractID,
			Reason:  fmt.Sprintf("ring self-intersects between edges %d and %d", i, j),
		}
	}
	return nil
}

// selfIntersection scans all non-adjacent edge pairs for a proper crossing
// or a collinear overlap. Zero-length edges (coincident consecutive
// vertices) are skipped.
func selfIntersection(ring model.Ring) (int, int, bool) {
	n := len(ring) - 1
	for i := 0; i < n; i++ {
		if degenerate(ring[i], ring[i+1]) {
			continue
		}
		for j := i + 2; j < n; j++ {
			// The closing edge is adjacent to the first edge.
			if i == 0 && j == n-1 {
				continue
			}
			if degenerate(ring[j], ring[j+1]) {
				continue
			}
			if edgesCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func degenerate(a, b model.Vertex) bool {
	return a.LonDeg == b.LonDeg && a.LatDeg == b.LatDeg
}

// edgesCross reports whether segments ab and cd properly cross, or are
// collinear and overlap in more than a shared endpoint. Mere endpoint
// contact does not count.
func edgesCross(a, b, c, d model.Vertex) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}

	// Collinear cases: overlap only counts when the interiors meet.
	if o1 == 0 && o2 == 0 && o3 == 0 && o4 == 0 {
		return collinearOverlap(a, b, c, d)
	}
	return false
}

// orientation returns the sign of the cross product (b-a) x (c-a):
// +1 counter-clockwise, -1 clockwise, 0 collinear.
func orientation(a, b, c model.Vertex) int {
	cross := (b.LonDeg-a.LonDeg)*(c.LatDeg-a.LatDeg) - (b.LatDeg-a.LatDeg)*(c.LonDeg-a.LonDeg)
	const eps = 1e-12
	switch {
	case cross > eps:
		return 1
	case cross < -eps:
		return -1
	default:
		return 0
	}
}

func collinearOverlap(a, b, c, d model.Vertex) bool {
	amin, amax := minMax(project(a, b, a), project(a, b, b))
	cmin, cmax := minMax(project(a, b, c), project(a, b, d))
	const eps = 1e-12
	return amin < cmax-eps && cmin < amax-eps
}

// project returns the scalar position of p along the direction of ab.
func project(a, b, p model.Vertex) float64 {
	return (b.LonDeg-a.LonDeg)*(p.LonDeg-a.LonDeg) + (b.LatDeg-a.LatDeg)*(p.LatDeg-a.LatDeg)
}

func minMax(x, y float64) (float64, float64) {
	if x < y {
		return x, y
	}
	return y, x
}
