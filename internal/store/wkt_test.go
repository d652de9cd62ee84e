package store

import (
	"strings"
	"testing"

	"github.com/signalsfoundry/orbital-tracts/model"
)

func TestEWKT_SingleRingPolygon(t *testing.T) {
	g := model.Geometry{
		TractID: "t1",
		Rings: []model.Ring{
			{
				{LonDeg: 0, LatDeg: 0, AltKm: 400},
				{LonDeg: 10, LatDeg: 0, AltKm: 400},
				{LonDeg: 10, LatDeg: 10, AltKm: 600},
				{LonDeg: 0, LatDeg: 0, AltKm: 400},
			},
		},
	}

	got := EWKT(g)
	want := "SRID=4326;POLYGON Z ((0 0 400,10 0 400,10 10 600,0 0 400))"
	if got != want {
		t.Errorf("EWKT = %s, want %s", got, want)
	}
}

func TestEWKT_SplitGeometryBecomesMultiPolygon(t *testing.T) {
	g := model.Geometry{
		TractID: "t1",
		Rings: []model.Ring{
			{
				{LonDeg: 170, LatDeg: 0, AltKm: 400},
				{LonDeg: 179, LatDeg: 0, AltKm: 400},
				{LonDeg: 179, LatDeg: 10, AltKm: 400},
				{LonDeg: 170, LatDeg: 0, AltKm: 400},
			},
			{
				{LonDeg: -179, LatDeg: 0, AltKm: 400},
				{LonDeg: -170, LatDeg: 0, AltKm: 400},
				{LonDeg: -170, LatDeg: 10, AltKm: 400},
				{LonDeg: -179, LatDeg: 0, AltKm: 400},
			},
		},
	}

	got := EWKT(g)
	if !strings.HasPrefix(got, "SRID=4326;MULTIPOLYGON Z (") {
		t.Fatalf("EWKT = %s", got)
	}
	if strings.Count(got, "((") != 2 {
		t.Errorf("expected two polygon parts in %s", got)
	}
}

func TestEWKT_FractionalCoordinates(t *testing.T) {
	g := model.Geometry{
		TractID: "t1",
		Rings: []model.Ring{
			{
				{LonDeg: -12.5, LatDeg: 45.25, AltKm: 400.5},
				{LonDeg: 1, LatDeg: 2, AltKm: 3},
				{LonDeg: 4, LatDeg: 5, AltKm: 6},
				{LonDeg: -12.5, LatDeg: 45.25, AltKm: 400.5},
			},
		},
	}

	got := EWKT(g)
	if !strings.Contains(got, "-12.5 45.25 400.5") {
		t.Errorf("fractional vertex not rendered exactly: %s", got)
	}
}
