package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/model"
)

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   geoJSONGeometry `json:"geometry"`
	Properties TractProperties `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// GeoJSONWriter streams a tract catalog as a GeoJSON FeatureCollection,
// one encoded feature at a time. The full document is never held in memory.
type GeoJSONWriter struct {
	w      io.Writer
	n      int
	closed bool
}

// NewGeoJSONWriter writes the FeatureCollection header and returns a writer
// ready to accept entries.
func NewGeoJSONWriter(w io.Writer) (*GeoJSONWriter, error) {
	if _, err := io.WriteString(w, `{"type":"FeatureCollection","features":[`); err != nil {
		return nil, err
	}
	return &GeoJSONWriter{w: w}, nil
}

// Write appends one tract as a feature: the closed ring (or ring parts) as
// the geometry, and the full shared attribute set as properties.
func (g *GeoJSONWriter) Write(e catalog.Entry) error {
	if g.closed {
		return fmt.Errorf("geojson: write after close")
	}

	geom, err := geometryJSON(e.Geometry)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(geoJSONFeature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: PropertiesFor(e.Tract),
	})
	if err != nil {
		return fmt.Errorf("geojson: encode feature %s: %w", e.Tract.ID, err)
	}

	if g.n > 0 {
		if _, err := io.WriteString(g.w, ","); err != nil {
			return err
		}
	}
	if _, err := g.w.Write(payload); err != nil {
		return err
	}
	g.n++
	return nil
}

// Close writes the FeatureCollection trailer.
func (g *GeoJSONWriter) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	_, err := io.WriteString(g.w, "]}\n")
	return err
}

// WriteGeoJSON streams all entries to w as one FeatureCollection.
func WriteGeoJSON(w io.Writer, entries []catalog.Entry) error {
	gw, err := NewGeoJSONWriter(w)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := gw.Write(e); err != nil {
			return err
		}
	}
	return gw.Close()
}

// geometryJSON encodes a footprint as a PolygonZ for the single-ring case
// or a MultiPolygonZ when the footprint was split at the antimeridian.
func geometryJSON(g model.Geometry) (geoJSONGeometry, error) {
	if len(g.Rings) == 0 {
		return geoJSONGeometry{}, &model.GeometryError{TractID: g.TractID, Reason: "no rings to export"}
	}

	if len(g.Rings) == 1 {
		coords, err := json.Marshal(ringPositions(g.Rings[0]))
		if err != nil {
			return geoJSONGeometry{}, err
		}
		return geoJSONGeometry{Type: "Polygon", Coordinates: coords}, nil
	}

	parts := make([][][][3]float64, 0, len(g.Rings))
	for _, ring := range g.Rings {
		parts = append(parts, ringPositions(ring))
	}
	coords, err := json.Marshal(parts)
	if err != nil {
		return geoJSONGeometry{}, err
	}
	return geoJSONGeometry{Type: "MultiPolygon", Coordinates: coords}, nil
}

// ringPositions renders one ring as a single-ring polygon coordinate array:
// [exterior][position][lon, lat, alt_km].
func ringPositions(ring model.Ring) [][][3]float64 {
	positions := make([][3]float64, 0, len(ring))
	for _, v := range ring {
		positions = append(positions, [3]float64{v.LonDeg, v.LatDeg, v.AltKm})
	}
	return [][][3]float64{positions}
}
