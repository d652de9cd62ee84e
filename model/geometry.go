package model

// Vertex is one geodetic ring vertex: longitude and latitude in degrees,
// altitude in kilometres above the reference surface.
type Vertex struct {
	LonDeg float64
	LatDeg float64
	AltKm  float64
}

// Ring is a closed vertex sequence; the first vertex is repeated last.
type Ring []Vertex

// Closed reports whether the ring repeats its first vertex at the end.
func (r Ring) Closed() bool {
	if len(r) < 4 {
		return false
	}
	return r[0] == r[len(r)-1]
}

// Geometry is a tract footprint: a single ring in the common case, or
// several rings when the footprint was split at the antimeridian.
type Geometry struct {
	TractID string
	Rings   []Ring
}

// ZBounds returns the minimum and maximum vertex altitude across all rings.
func (g Geometry) ZBounds() (minKm, maxKm float64) {
	first := true
	for _, ring := range g.Rings {
		for _, v := range ring {
			if first {
				minKm, maxKm = v.AltKm, v.AltKm
				first = false
				continue
			}
			if v.AltKm < minKm {
				minKm = v.AltKm
			}
			if v.AltKm > maxKm {
				maxKm = v.AltKm
			}
		}
	}
	return minKm, maxKm
}

// VertexCount returns the total number of vertices across all rings,
// closure vertices included.
func (g Geometry) VertexCount() int {
	n := 0
	for _, ring := range g.Rings {
		n += len(ring)
	}
	return n
}
