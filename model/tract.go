package model

import (
	"fmt"
	"time"
)

// OrbitZone is the coarse altitude classification a tract belongs to.
type OrbitZone string

const (
	ZoneLEO OrbitZone = "LEO"
	ZoneMEO OrbitZone = "MEO"
	ZoneGEO OrbitZone = "GEO"
)

// Tract is one cell of the orbital partition: an altitude band crossed with
// an inclination band, an azimuth (RAAN) slice, and the longitudinal sector
// indices that slice maps onto. Records are immutable once constructed;
// a regeneration run produces a fresh set under a new Version.
type Tract struct {
	ID string

	// Altitude band in kilometres above the reference surface.
	AltMinKm float64
	AltMaxKm float64

	// Inclination band in degrees, within [0, 180].
	IncMinDeg float64
	IncMaxDeg float64

	// Azimuth (RAAN) slice in degrees. AzMinDeg lies in [0, 360);
	// AzMaxDeg may exceed 360 when the slice wraps.
	AzMinDeg float64
	AzMaxDeg float64

	// Indices into the fixed longitudinal-sector discretization.
	ThetaStartIdx int
	ThetaEndIdx   int

	Zone OrbitZone

	// Provenance of the generation run that produced this record.
	Version   string
	CreatedAt time.Time
}

// NewTract validates every field and returns the assembled record.
// Out-of-range or misordered bounds are rejected here rather than surfacing
// later at export or persistence time.
func NewTract(id string, altMin, altMax, incMin, incMax, azMin, azMax float64,
	thetaStart, thetaEnd int, zone OrbitZone, version string, createdAt time.Time) (Tract, error) {

	switch {
	case id == "":
		return Tract{}, &ConfigurationError{Field: "tract_id", Reason: "empty identifier"}
	case altMin >= altMax:
		return Tract{}, &GeometryError{TractID: id, Reason: fmt.Sprintf("altitude band [%g, %g] is empty", altMin, altMax)}
	case altMin < 0:
		return Tract{}, &GeometryError{TractID: id, Reason: fmt.Sprintf("negative minimum altitude %g", altMin)}
	case incMin < 0 || incMax > 180 || incMin >= incMax:
		return Tract{}, &GeometryError{TractID: id, Reason: fmt.Sprintf("inclination band [%g, %g] outside [0, 180]", incMin, incMax)}
	case azMin < 0 || azMin >= 360 || azMax <= azMin || azMax > azMin+360:
		return Tract{}, &GeometryError{TractID: id, Reason: fmt.Sprintf("azimuth slice [%g, %g] invalid", azMin, azMax)}
	case thetaStart < 0 || thetaEnd < 0:
		return Tract{}, &GeometryError{TractID: id, Reason: fmt.Sprintf("negative theta index (%d, %d)", thetaStart, thetaEnd)}
	case zone == "":
		return Tract{}, &ConfigurationError{Field: "orbit_zone", Reason: "empty zone for tract " + id}
	case version == "":
		return Tract{}, &ConfigurationError{Field: "version", Reason: "empty version tag for tract " + id}
	case createdAt.IsZero():
		return Tract{}, &ConfigurationError{Field: "created_at", Reason: "zero timestamp for tract " + id}
	}

	return Tract{
		ID:            id,
		AltMinKm:      altMin,
		AltMaxKm:      altMax,
		IncMinDeg:     incMin,
		IncMaxDeg:     incMax,
		AzMinDeg:      azMin,
		AzMaxDeg:      azMax,
		ThetaStartIdx: thetaStart,
		ThetaEndIdx:   thetaEnd,
		Zone:          zone,
		Version:       version,
		CreatedAt:     createdAt,
	}, nil
}
