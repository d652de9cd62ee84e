package export

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// Tolerances for cross-format vertex comparison. Angles are compared in
// degrees, altitudes in kilometers after normalising the CZML heights.
const (
	angleEpsDeg = 1e-9
	altEpsKm    = 1e-6
)

type exportedTract struct {
	props    TractProperties
	vertices []model.Vertex
}

// VerifyConsistency cross-checks a GeoJSON document and a CZML document
// rendered from the same catalog: the two must describe the same tract ID
// set, identical per-tract attributes, and the same vertex multiset per
// tract within numeric tolerance. Any divergence is a ConsistencyError.
func VerifyConsistency(geojsonDoc, czmlDoc []byte) error {
	fromGeo, err := parseGeoJSON(geojsonDoc)
	if err != nil {
		return err
	}
	fromCZML, err := parseCZML(czmlDoc)
	if err != nil {
		return err
	}

	for id := range fromGeo {
		if _, ok := fromCZML[id]; !ok {
			return &model.ConsistencyError{TractID: id, Reason: "present in geojson but missing from czml"}
		}
	}
	for id := range fromCZML {
		if _, ok := fromGeo[id]; !ok {
			return &model.ConsistencyError{TractID: id, Reason: "present in czml but missing from geojson"}
		}
	}

	for id, g := range fromGeo {
		c := fromCZML[id]
		if g.props != c.props {
			return &model.ConsistencyError{TractID: id, Reason: "attribute values differ between formats"}
		}
		if err := compareVertices(id, g.vertices, c.vertices); err != nil {
			return err
		}
	}
	return nil
}

func parseGeoJSON(doc []byte) (map[string]exportedTract, error) {
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties TractProperties `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(doc, &fc); err != nil {
		return nil, fmt.Errorf("consistency: parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("consistency: unexpected geojson root type %q", fc.Type)
	}

	out := make(map[string]exportedTract, len(fc.Features))
	for _, f := range fc.Features {
		id := f.Properties.TractID
		if id == "" {
			return nil, &model.ConsistencyError{Reason: "geojson feature without tract_id"}
		}
		if _, dup := out[id]; dup {
			return nil, &model.ConsistencyError{TractID: id, Reason: "duplicate tract_id in geojson"}
		}

		var rings [][][]float64
		switch f.Geometry.Type {
		case "Polygon":
			var poly [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &poly); err != nil {
				return nil, fmt.Errorf("consistency: parse polygon for %s: %w", id, err)
			}
			rings = poly
		case "MultiPolygon":
			var multi [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &multi); err != nil {
				return nil, fmt.Errorf("consistency: parse multipolygon for %s: %w", id, err)
			}
			for _, poly := range multi {
				rings = append(rings, poly...)
			}
		default:
			return nil, &model.ConsistencyError{TractID: id, Reason: "unexpected geometry type " + f.Geometry.Type}
		}

		var vertices []model.Vertex
		for _, ring := range rings {
			for _, pos := range ring {
				if len(pos) != 3 {
					return nil, &model.ConsistencyError{TractID: id, Reason: "geojson position without altitude"}
				}
				vertices = append(vertices, model.Vertex{LonDeg: pos[0], LatDeg: pos[1], AltKm: pos[2]})
			}
		}
		out[id] = exportedTract{props: f.Properties, vertices: vertices}
	}
	return out, nil
}

func parseCZML(doc []byte) (map[string]exportedTract, error) {
	var packets []struct {
		ID      string `json:"id"`
		Parent  string `json:"parent"`
		Polygon *struct {
			Positions struct {
				CartographicDegrees []float64 `json:"cartographicDegrees"`
			} `json:"positions"`
		} `json:"polygon"`
		Properties *TractProperties `json:"properties"`
	}
	if err := json.Unmarshal(doc, &packets); err != nil {
		return nil, fmt.Errorf("consistency: parse czml: %w", err)
	}
	if len(packets) == 0 || packets[0].ID != "document" {
		return nil, fmt.Errorf("consistency: czml missing document packet")
	}

	out := make(map[string]exportedTract)
	for _, p := range packets[1:] {
		// Geometry parts attach to the parent entity; any other packet must
		// carry the full property bag.
		owner := p.ID
		if p.Parent != "" {
			owner = p.Parent
		} else if p.Properties == nil {
			return nil, &model.ConsistencyError{TractID: p.ID, Reason: "czml packet without properties"}
		}

		entry := out[owner]
		if p.Properties != nil {
			if entry.props.TractID != "" {
				return nil, &model.ConsistencyError{TractID: owner, Reason: "duplicate tract packet in czml"}
			}
			entry.props = *p.Properties
		}
		if p.Polygon != nil {
			degs := p.Polygon.Positions.CartographicDegrees
			if len(degs)%3 != 0 {
				return nil, &model.ConsistencyError{TractID: owner, Reason: "czml positions not a multiple of three"}
			}
			for i := 0; i < len(degs); i += 3 {
				entry.vertices = append(entry.vertices, model.Vertex{
					LonDeg: degs[i],
					LatDeg: degs[i+1],
					AltKm:  degs[i+2] / 1000,
				})
			}
		}
		out[owner] = entry
	}

	for id, entry := range out {
		if entry.props.TractID == "" {
			return nil, &model.ConsistencyError{TractID: id, Reason: "czml geometry without owning tract packet"}
		}
	}
	return out, nil
}

// compareVertices matches the two vertex sets as multisets. The GeoJSON side
// repeats each ring's closing vertex while the CZML side may not, so exact
// counts are reconciled before the pairwise tolerance check.
func compareVertices(id string, geo, czml []model.Vertex) error {
	a := dedupeSorted(sortVertices(geo))
	b := dedupeSorted(sortVertices(czml))
	if len(a) != len(b) {
		return &model.ConsistencyError{
			TractID: id,
			Reason:  fmt.Sprintf("distinct vertex counts differ: geojson %d, czml %d", len(a), len(b)),
		}
	}
	for i := range a {
		if !vertexClose(a[i], b[i]) {
			return &model.ConsistencyError{
				TractID: id,
				Reason:  fmt.Sprintf("vertex %d diverges beyond tolerance", i),
			}
		}
	}
	return nil
}

func sortVertices(vs []model.Vertex) []model.Vertex {
	sorted := make([]model.Vertex, len(vs))
	copy(sorted, vs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LonDeg != sorted[j].LonDeg {
			return sorted[i].LonDeg < sorted[j].LonDeg
		}
		if sorted[i].LatDeg != sorted[j].LatDeg {
			return sorted[i].LatDeg < sorted[j].LatDeg
		}
		return sorted[i].AltKm < sorted[j].AltKm
	})
	return sorted
}

func dedupeSorted(vs []model.Vertex) []model.Vertex {
	out := vs[:0]
	for _, v := range vs {
		if len(out) > 0 && vertexClose(out[len(out)-1], v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func vertexClose(a, b model.Vertex) bool {
	return math.Abs(a.LonDeg-b.LonDeg) <= angleEpsDeg &&
		math.Abs(a.LatDeg-b.LatDeg) <= angleEpsDeg &&
		math.Abs(a.AltKm-b.AltKm) <= altEpsKm
}
