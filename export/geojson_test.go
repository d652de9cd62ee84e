package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/core"
	"github.com/signalsfoundry/orbital-tracts/model"
)

var exportCreatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// buildEntries assembles two real footprints: one plain panel and one that
// splits at the antimeridian.
func buildEntries(t *testing.T) []catalog.Entry {
	t.Helper()

	specs := []struct {
		azMin, azMax float64
		thetaS, thetaE int
	}{
		{0, 90, 0, 2},
		{60, 300, 1, 6},
	}

	var entries []catalog.Entry
	for _, s := range specs {
		tuple := core.IndexTuple{
			Alt:        core.Bin{Lo: 400, Hi: 600},
			Inc:        core.Bin{Lo: 40, Hi: 60},
			Az:         core.Bin{Lo: s.azMin, Hi: s.azMax},
			ThetaStart: s.thetaS,
			ThetaEnd:   s.thetaE,
		}
		id := core.TractID("LEO", tuple)
		tract, err := model.NewTract(id, 400, 600, 40, 60, s.azMin, s.azMax,
			s.thetaS, s.thetaE, model.ZoneLEO, "v1", exportCreatedAt)
		if err != nil {
			t.Fatalf("NewTract: %v", err)
		}
		geom, err := core.BuildPanel(core.PanelSpec{
			TractID:   id,
			AltMinKm:  400,
			AltMaxKm:  600,
			IncMinDeg: 40,
			IncMaxDeg: 60,
			AzMinDeg:  s.azMin,
			AzMaxDeg:  s.azMax,
			Steps:     16,
			Seam:      core.SeamSplit,
		})
		if err != nil {
			t.Fatalf("BuildPanel: %v", err)
		}
		entries = append(entries, catalog.Entry{Tract: tract, Geometry: geom})
	}
	return entries
}

func TestWriteGeoJSON_FeatureCollection(t *testing.T) {
	entries := buildEntries(t)

	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, entries); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties TractProperties `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("root type = %s", fc.Type)
	}
	if len(fc.Features) != len(entries) {
		t.Fatalf("got %d features, want %d", len(fc.Features), len(entries))
	}

	// The plain panel renders as a Polygon, the split one as a MultiPolygon.
	if fc.Features[0].Geometry.Type != "Polygon" {
		t.Errorf("feature 0 geometry type = %s, want Polygon", fc.Features[0].Geometry.Type)
	}
	if fc.Features[1].Geometry.Type != "MultiPolygon" {
		t.Errorf("feature 1 geometry type = %s, want MultiPolygon", fc.Features[1].Geometry.Type)
	}

	for i, f := range fc.Features {
		want := PropertiesFor(entries[i].Tract)
		if diff := cmp.Diff(want, f.Properties); diff != "" {
			t.Errorf("feature %d properties mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestWriteGeoJSON_PositionsCarryAltitude(t *testing.T) {
	entries := buildEntries(t)[:1]

	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, entries); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	var fc struct {
		Features []struct {
			Geometry struct {
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	ring := fc.Features[0].Geometry.Coordinates[0]
	if len(ring) != 33 {
		t.Fatalf("ring has %d positions, want 33", len(ring))
	}
	for _, pos := range ring {
		if len(pos) != 3 {
			t.Fatalf("position has %d components, want 3", len(pos))
		}
		if pos[2] != 400 && pos[2] != 600 {
			t.Errorf("altitude %g outside the band edges", pos[2])
		}
	}
}

func TestGeoJSONWriter_EmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, nil); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("got %d features, want 0", len(fc.Features))
	}
}

func TestGeoJSONWriter_RejectsEmptyGeometry(t *testing.T) {
	entries := buildEntries(t)[:1]
	entries[0].Geometry.Rings = nil

	var buf bytes.Buffer
	err := WriteGeoJSON(&buf, entries)
	if err == nil {
		t.Fatalf("expected error for geometry without rings")
	}
}
