package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// CatalogConfig is the decoded, validated generation configuration: the
// requested zone, the zone envelopes, the three axis specs, the sector
// count, and the run policies. The same pipeline regenerates catalogs at any
// resolution by feeding it a different configuration.
type CatalogConfig struct {
	Zone    string
	Version string

	Zones       []ZoneDef
	Altitude    AxisSpec
	Inclination AxisSpec
	Azimuth     AxisSpec
	Sectors     int

	// Steps is the boundary sample count per panel edge.
	Steps int

	Division DivisionPolicy
	Seam     SeamPolicy

	// AbortOnError stops the run at the first per-tract geometry failure
	// instead of skipping the tract.
	AbortOnError bool

	// WritePolicy selects how the persistence boundary treats an existing
	// catalog: "replace" deletes the zone's rows first, "append" inserts a
	// new versioned set alongside.
	WritePolicy string

	// ValidityDays bounds the display interval derived from the run
	// timestamp in the time-dynamic export.
	ValidityDays int
}

// internal JSON shapes - kept unexported so the wire format can evolve
// independently of the validated config.
type catalogConfigJSON struct {
	Zone           string         `json:"zone"`
	Version        string         `json:"version"`
	Zones          []zoneDefJSON  `json:"zones"`
	Altitude       axisSpecJSON   `json:"altitude"`
	Inclination    axisSpecJSON   `json:"inclination"`
	Azimuth        axisSpecJSON   `json:"azimuth"`
	Sectors        int            `json:"sectors"`
	Steps          int            `json:"steps"`
	StrictDivision bool           `json:"strict_division"`
	SeamPolicy     string         `json:"seam_policy"`   // "split" | "reject"
	WritePolicy    string         `json:"write_policy"`  // "replace" | "append"
	AbortOnError   bool           `json:"abort_on_error"`
	ValidityDays   int            `json:"validity_days"`
}

type zoneDefJSON struct {
	Name     string  `json:"name"`
	AltMinKm float64 `json:"alt_min_km"`
	AltMaxKm float64 `json:"alt_max_km"`
}

type axisSpecJSON struct {
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Bins  int       `json:"bins,omitempty"`
	Width float64   `json:"bin_width,omitempty"`
	Edges []float64 `json:"edges,omitempty"`
}

// LoadCatalogConfig reads a JSON catalog configuration from r and validates
// it. Any structural or semantic problem is a ConfigurationError; nothing is
// generated from a configuration that fails here.
func LoadCatalogConfig(r io.Reader) (*CatalogConfig, error) {
	var payload catalogConfigJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, &model.ConfigurationError{Reason: "decode failed: " + err.Error()}
	}

	cfg := &CatalogConfig{
		Zone:         payload.Zone,
		Version:      payload.Version,
		Altitude:     axisFromJSON("altitude", payload.Altitude),
		Inclination:  axisFromJSON("inclination", payload.Inclination),
		Azimuth:      axisFromJSON("azimuth", payload.Azimuth),
		Sectors:      payload.Sectors,
		Steps:        payload.Steps,
		AbortOnError: payload.AbortOnError,
		WritePolicy:  payload.WritePolicy,
		ValidityDays: payload.ValidityDays,
	}
	for _, z := range payload.Zones {
		cfg.Zones = append(cfg.Zones, ZoneDef{Name: z.Name, AltMinKm: z.AltMinKm, AltMaxKm: z.AltMaxKm})
	}
	if payload.StrictDivision {
		cfg.Division = StrictDivision
	}

	switch strings.ToLower(strings.TrimSpace(payload.SeamPolicy)) {
	case "", "split":
		cfg.Seam = SeamSplit
	case "reject":
		cfg.Seam = SeamReject
	default:
		return nil, &model.ConfigurationError{
			Field:  "seam_policy",
			Reason: fmt.Sprintf("unknown policy %q", payload.SeamPolicy),
		}
	}

	if cfg.WritePolicy == "" {
		cfg.WritePolicy = "replace"
	}
	if cfg.Steps == 0 {
		cfg.Steps = DefaultRingSteps
	}
	if cfg.ValidityDays == 0 {
		cfg.ValidityDays = 365
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func axisFromJSON(name string, a axisSpecJSON) AxisSpec {
	return AxisSpec{Name: name, Min: a.Min, Max: a.Max, Bins: a.Bins, Width: a.Width, Edges: a.Edges}
}

// Validate checks everything that can be checked without building geometry.
func (c *CatalogConfig) Validate() error {
	if c.Zone == "" {
		return &model.ConfigurationError{Field: "zone", Reason: "empty zone name"}
	}
	if c.Version == "" {
		return &model.ConfigurationError{Field: "version", Reason: "empty version tag"}
	}
	if len(c.Zones) == 0 {
		return &model.ConfigurationError{Field: "zones", Reason: "no zone envelopes configured"}
	}
	if c.Sectors < 1 {
		return &model.ConfigurationError{Field: "sectors", Reason: fmt.Sprintf("sector count %d < 1", c.Sectors)}
	}
	if c.Steps < 2 {
		return &model.ConfigurationError{Field: "steps", Reason: fmt.Sprintf("ring step count %d < 2", c.Steps)}
	}
	switch c.WritePolicy {
	case "replace", "append":
	default:
		return &model.ConfigurationError{Field: "write_policy", Reason: fmt.Sprintf("unknown policy %q", c.WritePolicy)}
	}

	requested := false
	for i, z := range c.Zones {
		if z.Name == "" {
			return &model.ConfigurationError{Field: "zones", Reason: "zone with empty name"}
		}
		if z.AltMinKm >= z.AltMaxKm {
			return &model.ConfigurationError{
				Field:  "zones",
				Reason: fmt.Sprintf("zone %s envelope [%g, %g] is empty", z.Name, z.AltMinKm, z.AltMaxKm),
			}
		}
		if z.Name == c.Zone {
			requested = true
		}
		for _, other := range c.Zones[:i] {
			if z.AltMinKm < other.AltMaxKm && z.AltMaxKm > other.AltMinKm {
				return &model.ConfigurationError{
					Field:  "zones",
					Reason: fmt.Sprintf("zones %s and %s overlap", other.Name, z.Name),
				}
			}
		}
	}
	if !requested {
		return &model.ConfigurationError{
			Field:  "zone",
			Reason: fmt.Sprintf("requested zone %q has no configured envelope", c.Zone),
		}
	}

	// Axis partitions are rebuilt during generation; probing them here keeps
	// the fail-fast promise: a bad axis, or an altitude bin straddling a
	// zone edge, aborts before any tract exists.
	im, err := NewIndexModel(c.Zone, c.Altitude, c.Inclination, c.Azimuth, c.Sectors, c.Division)
	if err != nil {
		return err
	}
	for _, bin := range im.AltBins {
		if _, err := AssignZone(c.Zones, bin.Lo, bin.Hi); err != nil {
			return err
		}
	}
	return nil
}
