package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/model"
)

func renderBoth(t *testing.T, entries []catalog.Entry) (geojsonDoc, czmlDoc []byte) {
	t.Helper()

	var geo bytes.Buffer
	if err := WriteGeoJSON(&geo, entries); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}
	var czml bytes.Buffer
	if err := WriteCZML(&czml, CZMLOptions{ValidityDays: 365}, exportCreatedAt, entries); err != nil {
		t.Fatalf("WriteCZML: %v", err)
	}
	return geo.Bytes(), czml.Bytes()
}

func TestVerifyConsistency_PassesOnMatchingRenderings(t *testing.T) {
	geo, czml := renderBoth(t, buildEntries(t))
	if err := VerifyConsistency(geo, czml); err != nil {
		t.Fatalf("VerifyConsistency: %v", err)
	}
}

func TestVerifyConsistency_DetectsMissingTract(t *testing.T) {
	entries := buildEntries(t)
	geo, _ := renderBoth(t, entries)
	_, czml := renderBoth(t, entries[:1])

	err := VerifyConsistency(geo, czml)
	var consErr *model.ConsistencyError
	if !errors.As(err, &consErr) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestVerifyConsistency_DetectsAttributeDrift(t *testing.T) {
	entries := buildEntries(t)
	geo, _ := renderBoth(t, entries)

	drifted := make([]catalog.Entry, len(entries))
	copy(drifted, entries)
	drifted[0].Tract.Version = "v2"
	_, czml := renderBoth(t, drifted)

	err := VerifyConsistency(geo, czml)
	var consErr *model.ConsistencyError
	if !errors.As(err, &consErr) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestVerifyConsistency_DetectsGeometryDrift(t *testing.T) {
	entries := buildEntries(t)
	geo, _ := renderBoth(t, entries)

	drifted := make([]catalog.Entry, len(entries))
	copy(drifted, entries)
	ring := make(model.Ring, len(entries[0].Geometry.Rings[0]))
	copy(ring, entries[0].Geometry.Rings[0])
	// Nudge one interior vertex past the comparison tolerance.
	ring[5].AltKm += 0.01
	drifted[0].Geometry = model.Geometry{
		TractID: entries[0].Geometry.TractID,
		Rings:   []model.Ring{ring},
	}
	_, czml := renderBoth(t, drifted)

	err := VerifyConsistency(geo, czml)
	var consErr *model.ConsistencyError
	if !errors.As(err, &consErr) {
		t.Fatalf("got %v, want ConsistencyError", err)
	}
}

func TestVerifyConsistency_RejectsMalformedDocuments(t *testing.T) {
	geo, czml := renderBoth(t, buildEntries(t))

	if err := VerifyConsistency([]byte(`{"type":"Garbage"}`), czml); err == nil {
		t.Errorf("expected error for malformed geojson")
	}
	if err := VerifyConsistency(geo, []byte(`[]`)); err == nil {
		t.Errorf("expected error for czml without document packet")
	}
}
