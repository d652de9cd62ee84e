package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/model"
)

// Fill colors per orbit zone as rgba components in [0,255]. Low alpha keeps
// overlapping shells legible in a 3D viewer.
var zoneFillColors = map[model.OrbitZone][4]int{
	model.ZoneLEO: {0, 150, 255, 30},
	model.ZoneMEO: {0, 200, 180, 40},
	model.ZoneGEO: {255, 170, 0, 40},
}

var defaultFillColor = [4]int{180, 180, 180, 30}

const outlineAlpha = 90

// CZMLOptions controls document-level CZML output.
type CZMLOptions struct {
	// Name labels the document packet. Defaults to "orbital-tracts".
	Name string
	// ValidityDays bounds each tract's availability interval, measured from
	// the tract's creation time. Defaults to 365.
	ValidityDays int
}

type czmlPacket struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	Parent       string           `json:"parent,omitempty"`
	Version      string           `json:"version,omitempty"`
	Availability string           `json:"availability,omitempty"`
	Clock        *czmlClock       `json:"clock,omitempty"`
	Polygon      *czmlPolygon     `json:"polygon,omitempty"`
	Properties   *TractProperties `json:"properties,omitempty"`
}

type czmlClock struct {
	Interval    string  `json:"interval"`
	CurrentTime string  `json:"currentTime"`
	Multiplier  float64 `json:"multiplier"`
}

type czmlPolygon struct {
	Positions         czmlPositions `json:"positions"`
	Material          czmlMaterial  `json:"material"`
	Outline           bool          `json:"outline"`
	OutlineColor      czmlColor     `json:"outlineColor"`
	PerPositionHeight bool          `json:"perPositionHeight"`
}

type czmlPositions struct {
	CartographicDegrees []float64 `json:"cartographicDegrees"`
}

type czmlMaterial struct {
	SolidColor czmlSolidColor `json:"solidColor"`
}

type czmlSolidColor struct {
	Color czmlColor `json:"color"`
}

type czmlColor struct {
	RGBA [4]int `json:"rgba"`
}

// CZMLWriter streams a tract catalog as a CZML document: the mandatory
// document packet first, then one entity packet per tract. Split footprints
// become one parent packet plus one polygon packet per part so a viewer
// groups them under a single entity.
type CZMLWriter struct {
	w        io.Writer
	opts     CZMLOptions
	wroteDoc bool
	closed   bool
}

// NewCZMLWriter writes the opening of the packet array and the document
// packet, whose clock spans docStart plus the validity window.
func NewCZMLWriter(w io.Writer, opts CZMLOptions, docStart time.Time) (*CZMLWriter, error) {
	if opts.Name == "" {
		opts.Name = "orbital-tracts"
	}
	if opts.ValidityDays <= 0 {
		opts.ValidityDays = 365
	}

	if _, err := io.WriteString(w, "["); err != nil {
		return nil, err
	}
	cw := &CZMLWriter{w: w, opts: opts}

	start := docStart.UTC()
	interval := availabilityInterval(start, opts.ValidityDays)
	doc := czmlPacket{
		ID:      "document",
		Name:    opts.Name,
		Version: "1.0",
		Clock: &czmlClock{
			Interval:    interval,
			CurrentTime: start.Format(time.RFC3339),
			Multiplier:  60,
		},
	}
	if err := cw.writePacket(doc); err != nil {
		return nil, err
	}
	return cw, nil
}

// Write appends the packet(s) for one tract.
func (c *CZMLWriter) Write(e catalog.Entry) error {
	if c.closed {
		return fmt.Errorf("czml: write after close")
	}
	if len(e.Geometry.Rings) == 0 {
		return &model.GeometryError{TractID: e.Tract.ID, Reason: "no rings to export"}
	}

	props := PropertiesFor(e.Tract)
	availability := availabilityInterval(e.Tract.CreatedAt.UTC(), c.opts.ValidityDays)

	if len(e.Geometry.Rings) == 1 {
		return c.writePacket(czmlPacket{
			ID:           e.Tract.ID,
			Name:         e.Tract.ID,
			Availability: availability,
			Polygon:      polygonFor(e.Geometry.Rings[0], e.Tract.Zone),
			Properties:   &props,
		})
	}

	// Parent packet owns identity and metadata; the parts carry geometry.
	if err := c.writePacket(czmlPacket{
		ID:           e.Tract.ID,
		Name:         e.Tract.ID,
		Availability: availability,
		Properties:   &props,
	}); err != nil {
		return err
	}
	for i, ring := range e.Geometry.Rings {
		part := czmlPacket{
			ID:           fmt.Sprintf("%s/part%d", e.Tract.ID, i+1),
			Name:         e.Tract.ID,
			Parent:       e.Tract.ID,
			Availability: availability,
			Polygon:      polygonFor(ring, e.Tract.Zone),
		}
		if err := c.writePacket(part); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the closing bracket of the packet array.
func (c *CZMLWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	_, err := io.WriteString(c.w, "]\n")
	return err
}

// WriteCZML streams all entries to w as one CZML document whose clock starts
// at docStart.
func WriteCZML(w io.Writer, opts CZMLOptions, docStart time.Time, entries []catalog.Entry) error {
	cw, err := NewCZMLWriter(w, opts, docStart)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(e); err != nil {
			return err
		}
	}
	return cw.Close()
}

func (c *CZMLWriter) writePacket(p czmlPacket) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("czml: encode packet %s: %w", p.ID, err)
	}
	if c.wroteDoc {
		if _, err := io.WriteString(c.w, ","); err != nil {
			return err
		}
	}
	c.wroteDoc = true
	_, err = c.w.Write(payload)
	return err
}

func polygonFor(ring model.Ring, zone model.OrbitZone) *czmlPolygon {
	fill, ok := zoneFillColors[zone]
	if !ok {
		fill = defaultFillColor
	}
	outline := czmlColor{RGBA: [4]int{fill[0], fill[1], fill[2], outlineAlpha}}

	// CZML expects meters, a flat lon/lat/height triple per vertex.
	positions := make([]float64, 0, len(ring)*3)
	for _, v := range ring {
		positions = append(positions, v.LonDeg, v.LatDeg, v.AltKm*1000)
	}

	return &czmlPolygon{
		Positions:         czmlPositions{CartographicDegrees: positions},
		Material:          czmlMaterial{SolidColor: czmlSolidColor{Color: czmlColor{RGBA: fill}}},
		Outline:           true,
		OutlineColor:      outline,
		PerPositionHeight: true,
	}
}

func availabilityInterval(start time.Time, validityDays int) string {
	stop := start.AddDate(0, 0, validityDays)
	return start.Format(time.RFC3339) + "/" + stop.Format(time.RFC3339)
}
