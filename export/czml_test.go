package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type czmlTestPacket struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Parent       string `json:"parent"`
	Version      string `json:"version"`
	Availability string `json:"availability"`
	Clock        *struct {
		Interval string `json:"interval"`
	} `json:"clock"`
	Polygon *struct {
		Positions struct {
			CartographicDegrees []float64 `json:"cartographicDegrees"`
		} `json:"positions"`
		Material struct {
			SolidColor struct {
				Color struct {
					RGBA [4]int `json:"rgba"`
				} `json:"color"`
			} `json:"solidColor"`
		} `json:"material"`
		PerPositionHeight bool `json:"perPositionHeight"`
	} `json:"polygon"`
	Properties *TractProperties `json:"properties"`
}

func writeCZMLPackets(t *testing.T) []czmlTestPacket {
	t.Helper()
	entries := buildEntries(t)

	var buf bytes.Buffer
	opts := CZMLOptions{Name: "test-catalog", ValidityDays: 365}
	if err := WriteCZML(&buf, opts, exportCreatedAt, entries); err != nil {
		t.Fatalf("WriteCZML: %v", err)
	}

	var packets []czmlTestPacket
	if err := json.Unmarshal(buf.Bytes(), &packets); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	return packets
}

func TestWriteCZML_DocumentPacketComesFirst(t *testing.T) {
	packets := writeCZMLPackets(t)
	if len(packets) == 0 {
		t.Fatalf("no packets written")
	}

	doc := packets[0]
	if doc.ID != "document" {
		t.Fatalf("first packet id = %s, want document", doc.ID)
	}
	if doc.Version != "1.0" {
		t.Errorf("document version = %s, want 1.0", doc.Version)
	}
	if doc.Clock == nil || !strings.HasPrefix(doc.Clock.Interval, "2026-08-01T00:00:00Z/") {
		t.Errorf("document clock interval missing or wrong: %+v", doc.Clock)
	}
}

func TestWriteCZML_PlainTractPacket(t *testing.T) {
	packets := writeCZMLPackets(t)

	// Packet 1 is the plain (non-split) tract.
	p := packets[1]
	if p.ID != p.Name || p.Parent != "" {
		t.Errorf("plain tract packet id/name/parent = %s/%s/%s", p.ID, p.Name, p.Parent)
	}
	if p.Properties == nil || p.Properties.TractID != p.ID {
		t.Fatalf("plain tract packet missing matching properties")
	}
	if p.Polygon == nil {
		t.Fatalf("plain tract packet missing polygon")
	}
	if !p.Polygon.PerPositionHeight {
		t.Errorf("perPositionHeight not set")
	}

	want := "2026-08-01T00:00:00Z/2027-08-01T00:00:00Z"
	if p.Availability != want {
		t.Errorf("availability = %s, want %s", p.Availability, want)
	}

	degs := p.Polygon.Positions.CartographicDegrees
	if len(degs) != 33*3 {
		t.Fatalf("got %d position components, want %d", len(degs), 33*3)
	}
	// Heights are metres; the band edges are 400 and 600 km.
	for i := 2; i < len(degs); i += 3 {
		if degs[i] != 400000 && degs[i] != 600000 {
			t.Errorf("height %g outside the band edges in metres", degs[i])
		}
	}

	if rgba := p.Polygon.Material.SolidColor.Color.RGBA; rgba != [4]int{0, 150, 255, 30} {
		t.Errorf("LEO fill = %v", rgba)
	}
}

func TestWriteCZML_SplitTractBecomesParentAndParts(t *testing.T) {
	packets := writeCZMLPackets(t)
	entries := buildEntries(t)
	splitID := entries[1].Tract.ID

	var parent *czmlTestPacket
	var parts []czmlTestPacket
	for i := range packets {
		p := packets[i]
		if p.ID == splitID {
			parent = &packets[i]
		}
		if p.Parent == splitID {
			parts = append(parts, p)
		}
	}

	if parent == nil {
		t.Fatalf("no parent packet for split tract %s", splitID)
	}
	if parent.Polygon != nil {
		t.Errorf("parent packet carries geometry")
	}
	if parent.Properties == nil {
		t.Errorf("parent packet missing properties")
	}

	if len(parts) != len(entries[1].Geometry.Rings) {
		t.Fatalf("got %d part packets, want %d", len(parts), len(entries[1].Geometry.Rings))
	}
	for _, part := range parts {
		if part.Polygon == nil {
			t.Errorf("part %s missing polygon", part.ID)
		}
		if !strings.HasPrefix(part.ID, splitID+"/part") {
			t.Errorf("part id = %s", part.ID)
		}
	}
}
