package core

import (
	"fmt"
	"math"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/floats"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// EarthRadiusKm is the mean Earth radius used to place tract shells
// (kilometres).
const EarthRadiusKm = 6371.0

// Vec3 is an ECEF-style vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// SeamPolicy decides how a footprint that straddles the antimeridian is
// handled.
type SeamPolicy int

const (
	// SeamSplit breaks the ring into eastern and western parts.
	SeamSplit SeamPolicy = iota
	// SeamReject fails the tract with a geometry error instead.
	SeamReject
)

// DefaultRingSteps is the boundary sample count along each panel edge.
const DefaultRingSteps = 16

// Latitudes are kept strictly off the poles so downstream planar consumers
// never see a degenerate polar vertex.
const maxAbsLatDeg = 89.9999

// PanelSpec carries the bounds a tract footprint is built from.
type PanelSpec struct {
	TractID string

	AltMinKm  float64
	AltMaxKm  float64
	IncMinDeg float64
	IncMaxDeg float64
	AzMinDeg  float64
	AzMaxDeg  float64

	// Steps is the sample count along each edge; DefaultRingSteps when zero.
	Steps int
	Seam  SeamPolicy
}

// BuildPanel constructs the closed footprint ring(s) for one tract.
//
// The outer edge walks the azimuth span at the band inclination reaching the
// highest latitude, at the maximum altitude; the inner edge walks it back at
// the inclination with the smallest reach, at the minimum altitude. Each
// sample is an orbital-plane point on the shell, converted to geodetic
// longitude/latitude; the vertex carries the band altitude directly so the
// ring's Z extent equals the tract's altitude bounds exactly.
func BuildPanel(spec PanelSpec) (model.Geometry, error) {
	if err := spec.validate(); err != nil {
		return model.Geometry{}, err
	}

	steps := spec.Steps
	if steps == 0 {
		steps = DefaultRingSteps
	}

	azMax := spec.AzMaxDeg
	if azMax < spec.AzMinDeg {
		azMax += 360
	}

	thetas := make([]float64, steps)
	floats.Span(thetas, spec.AzMinDeg, azMax)

	incOuter, incInner := edgeInclinations(spec.IncMinDeg, spec.IncMaxDeg)

	ring := make(model.Ring, 0, 2*steps+1)
	for _, theta := range thetas {
		ring = append(ring, edgeVertex(theta, incOuter, spec.AltMaxKm))
	}
	for i := len(thetas) - 1; i >= 0; i-- {
		ring = append(ring, edgeVertex(thetas[i], incInner, spec.AltMinKm))
	}
	ring = append(ring, ring[0])

	var rings []model.Ring
	if crossesSeam(ring) {
		if spec.Seam == SeamReject {
			return model.Geometry{}, &model.GeometryError{
				TractID: spec.TractID,
				Reason:  "footprint crosses the antimeridian and the seam policy rejects split rings",
			}
		}
		var err error
		rings, err = splitAtSeam(spec.TractID, ring)
		if err != nil {
			return model.Geometry{}, err
		}
	} else {
		rings = []model.Ring{ring}
	}

	for i, r := range rings {
		r = orientCCW(r)
		if err := validateRing(spec.TractID, r); err != nil {
			return model.Geometry{}, err
		}
		rings[i] = r
	}

	return model.Geometry{TractID: spec.TractID, Rings: rings}, nil
}

func (s PanelSpec) validate() error {
	switch {
	case s.AltMinKm >= s.AltMaxKm:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("altitude band [%g, %g] is empty", s.AltMinKm, s.AltMaxKm),
		}
	case s.AltMinKm < 0:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("negative minimum altitude %g", s.AltMinKm),
		}
	case s.IncMinDeg < 0 || s.IncMaxDeg > 180 || s.IncMinDeg >= s.IncMaxDeg:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("inclination band [%g, %g] outside [0, 180]", s.IncMinDeg, s.IncMaxDeg),
		}
	case s.AzMinDeg < 0 || s.AzMinDeg >= 360:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("azimuth start %g outside [0, 360)", s.AzMinDeg),
		}
	case s.AzMaxDeg == s.AzMinDeg:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("azimuth slice [%g, %g] is empty", s.AzMinDeg, s.AzMaxDeg),
		}
	case s.Steps < 0 || s.Steps == 1:
		return &model.GeometryError{
			TractID: s.TractID,
			Reason:  fmt.Sprintf("ring step count %d < 2", s.Steps),
		}
	}
	return nil
}

// edgeVertex samples one footprint edge point: the orbital-plane angle theta
// at inclination inc, placed on the shell for the given band altitude.
func edgeVertex(thetaDeg, incDeg, altKm float64) model.Vertex {
	p := orbitalECEF(EarthRadiusKm+altKm, math.Mod(thetaDeg, 360), incDeg)
	lon, lat := geodetic(p)
	return model.Vertex{LonDeg: lon, LatDeg: lat, AltKm: altKm}
}

// orbitalECEF maps an in-plane angle theta and an inclination (both degrees)
// onto the shell of radius r km, in ECEF kilometres.
func orbitalECEF(rKm, thetaDeg, incDeg float64) Vec3 {
	theta := thetaDeg * math.Pi / 180
	inc := incDeg * math.Pi / 180
	return Vec3{
		X: rKm * math.Cos(theta),
		Y: rKm * math.Sin(theta) * math.Cos(inc),
		Z: rKm * math.Sin(theta) * math.Sin(inc),
	}
}

// geodetic converts an ECEF position to geodetic longitude/latitude in
// degrees. go-satellite's ECI conversion is an ECEF conversion at GMST zero.
func geodetic(p Vec3) (lonDeg, latDeg float64) {
	_, _, ll := satellite.ECIToLLA(satellite.Vector3{X: p.X, Y: p.Y, Z: p.Z}, 0)
	deg := satellite.LatLongDeg(ll)
	return normalizeLon(deg.Longitude), clampLat(deg.Latitude)
}

// normalizeLon folds a longitude into [-180, 180).
func normalizeLon(lonDeg float64) float64 {
	lon := math.Mod(lonDeg+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clampLat(latDeg float64) float64 {
	if latDeg > maxAbsLatDeg {
		return maxAbsLatDeg
	}
	if latDeg < -maxAbsLatDeg {
		return -maxAbsLatDeg
	}
	return latDeg
}

// latReachDeg is the highest latitude an inclination reaches. The reach
// folds at 90 degrees: a retrograde plane at inclination i covers the same
// latitudes as a prograde one at 180-i.
func latReachDeg(incDeg float64) float64 {
	if incDeg > 90 {
		return 180 - incDeg
	}
	return incDeg
}

// edgeInclinations picks the inclinations bounding the band's latitude
// envelope. The outer edge uses the in-band inclination closest to 90
// degrees, nudged off an exactly polar value while staying inside the band;
// the inner edge uses the band endpoint with the smallest reach. A band
// whose endpoints both sit on the equatorial axis, such as [0, 180], still
// yields a proper envelope because the outer inclination comes from the
// band interior.
func edgeInclinations(incMin, incMax float64) (outer, inner float64) {
	outer = math.Max(incMin, math.Min(90, incMax))
	if math.Abs(outer-90) < 1e-9 {
		if incMin > 90-1e-9 {
			outer = 90.1
		} else {
			outer = 89.9
		}
	}

	inner = incMin
	if latReachDeg(incMax) < latReachDeg(incMin) {
		inner = incMax
	}
	return outer, inner
}

// crossesSeam reports whether consecutive ring vertices jump across the
// antimeridian.
func crossesSeam(ring model.Ring) bool {
	for i := 1; i < len(ring); i++ {
		if math.Abs(ring[i].LonDeg-ring[i-1].LonDeg) > 180 {
			return true
		}
	}
	return false
}

// splitAtSeam partitions the ring vertices into an eastern part (lon >= 0)
// and a western part (lon < 0) and closes each. Splitting by hemisphere is
// only applied once a seam jump was detected, so footprints that merely
// touch the prime meridian are never torn apart.
func splitAtSeam(tractID string, ring model.Ring) ([]model.Ring, error) {
	// Drop the closure vertex; each part is re-closed below.
	open := ring[:len(ring)-1]

	var east, west model.Ring
	for _, v := range open {
		if v.LonDeg >= 0 {
			east = append(east, v)
		} else {
			west = append(west, v)
		}
	}

	var parts []model.Ring
	for _, part := range []model.Ring{east, west} {
		if len(part) < 3 {
			continue
		}
		part = append(part, part[0])
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, &model.GeometryError{
			TractID: tractID,
			Reason:  "antimeridian split produced no usable ring part",
		}
	}
	return parts, nil
}
