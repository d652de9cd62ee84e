// Package export renders a tract catalog into its two interchange formats:
// a GeoJSON FeatureCollection (static geographic) and a CZML document
// (time-dynamic 3D scene). Both serializers read the same in-memory model;
// neither is ever derived from the other's output.
package export

import (
	"time"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// TractProperties mirrors every tract field under the stable attribute
// names shared by both output formats. The GeoJSON feature properties and
// the CZML entity property bag are both this exact shape.
type TractProperties struct {
	TractID       string  `json:"tract_id"`
	AltMin        float64 `json:"alt_min"`
	AltMax        float64 `json:"alt_max"`
	IncMin        float64 `json:"inc_min"`
	IncMax        float64 `json:"inc_max"`
	AzMin         float64 `json:"az_min"`
	AzMax         float64 `json:"az_max"`
	ThetaStartIdx int     `json:"theta_start_idx"`
	ThetaEndIdx   int     `json:"theta_end_idx"`
	OrbitZone     string  `json:"orbit_zone"`
	Version       string  `json:"version"`
	CreatedAt     string  `json:"created_at"`
}

// PropertiesFor projects a tract record onto the shared attribute set.
func PropertiesFor(t model.Tract) TractProperties {
	return TractProperties{
		TractID:       t.ID,
		AltMin:        t.AltMinKm,
		AltMax:        t.AltMaxKm,
		IncMin:        t.IncMinDeg,
		IncMax:        t.IncMaxDeg,
		AzMin:         t.AzMinDeg,
		AzMax:         t.AzMaxDeg,
		ThetaStartIdx: t.ThetaStartIdx,
		ThetaEndIdx:   t.ThetaEndIdx,
		OrbitZone:     string(t.Zone),
		Version:       t.Version,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
