package core

import (
	"errors"
	"testing"
	"time"

	"github.com/signalsfoundry/orbital-tracts/model"
)

var testZones = []ZoneDef{
	{Name: "LEO", AltMinKm: 160, AltMaxKm: 2000},
	{Name: "MEO", AltMinKm: 2000, AltMaxKm: 35786},
	{Name: "GEO", AltMinKm: 35786, AltMaxKm: 36086},
}

func TestAssignZone_Containment(t *testing.T) {
	cases := []struct {
		altMin, altMax float64
		want           model.OrbitZone
	}{
		{160, 2000, model.ZoneLEO},
		{400, 600, model.ZoneLEO},
		{2000, 8000, model.ZoneMEO},
		{35786, 36086, model.ZoneGEO},
	}
	for _, tc := range cases {
		zone, err := AssignZone(testZones, tc.altMin, tc.altMax)
		if err != nil {
			t.Fatalf("AssignZone(%g, %g): %v", tc.altMin, tc.altMax, err)
		}
		if zone != tc.want {
			t.Errorf("AssignZone(%g, %g) = %s, want %s", tc.altMin, tc.altMax, zone, tc.want)
		}
	}
}

func TestAssignZone_RejectsBandAcrossZoneEdge(t *testing.T) {
	_, err := AssignZone(testZones, 1500, 2500)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want ConfigurationError", err)
	}
}

func TestAssignZone_RejectsUncoveredBand(t *testing.T) {
	_, err := AssignZone(testZones, 40000, 50000)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want ConfigurationError", err)
	}
}

func TestAssemble_DerivesDeterministicRecords(t *testing.T) {
	run := GenerationContext{RunID: "run-1", Version: "v1", CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	asm := &Assembler{Zones: testZones, Run: run}

	tuple := IndexTuple{
		Alt:        Bin{Lo: 400, Hi: 600},
		Inc:        Bin{Lo: 40, Hi: 60},
		Az:         Bin{Lo: 90, Hi: 135},
		ThetaStart: 2,
		ThetaEnd:   3,
	}

	first, err := asm.Assemble(tuple)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	second, err := asm.Assemble(tuple)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if first != second {
		t.Errorf("repeated assembly diverges: %+v vs %+v", first, second)
	}

	if first.ID != "LEO-A400-I40-RAAN90_135" {
		t.Errorf("tract id = %s, want LEO-A400-I40-RAAN90_135", first.ID)
	}
	if first.Zone != model.ZoneLEO {
		t.Errorf("zone = %s, want LEO", first.Zone)
	}
	if first.Version != "v1" || !first.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("provenance not carried: version=%s created_at=%s", first.Version, first.CreatedAt)
	}
}

func TestNewGenerationContext_StampsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	run := NewGenerationContext("v1", time.Date(2026, 8, 1, 12, 0, 0, 0, loc))
	if run.RunID == "" {
		t.Errorf("empty run id")
	}
	if run.CreatedAt.Location() != time.UTC {
		t.Errorf("created_at not UTC: %s", run.CreatedAt)
	}
	if run.Version != "v1" {
		t.Errorf("version = %s, want v1", run.Version)
	}
}
