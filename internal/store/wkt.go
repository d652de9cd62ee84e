package store

import (
	"strconv"
	"strings"

	"github.com/signalsfoundry/orbital-tracts/model"
)

const srid = "SRID=4326;"

// EWKT renders a tract footprint as extended well-known text with explicit
// Z values, suitable for ST_GeomFromEWKT. Single-ring footprints become a
// POLYGON Z; antimeridian-split footprints become a MULTIPOLYGON Z with one
// polygon per part.
func EWKT(g model.Geometry) string {
	var b strings.Builder
	b.WriteString(srid)

	if len(g.Rings) == 1 {
		b.WriteString("POLYGON Z (")
		writeRing(&b, g.Rings[0])
		b.WriteString(")")
		return b.String()
	}

	b.WriteString("MULTIPOLYGON Z (")
	for i, ring := range g.Rings {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		writeRing(&b, ring)
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String()
}

func writeRing(b *strings.Builder, ring model.Ring) {
	b.WriteString("(")
	for i, v := range ring {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(wktFloat(v.LonDeg))
		b.WriteString(" ")
		b.WriteString(wktFloat(v.LatDeg))
		b.WriteString(" ")
		b.WriteString(wktFloat(v.AltKm))
	}
	b.WriteString(")")
}

func wktFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
