package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/orbital-tracts/model"
)

// ZoneDef is one configured orbit zone: a name and the altitude envelope it
// covers. Envelopes share edges with their neighbours and never overlap.
type ZoneDef struct {
	Name     string
	AltMinKm float64
	AltMaxKm float64
}

// GenerationContext carries run provenance explicitly through every stage
// instead of living in ambient process state.
type GenerationContext struct {
	RunID     string
	Version   string
	CreatedAt time.Time
}

// NewGenerationContext stamps a fresh run with the given version tag.
func NewGenerationContext(version string, now time.Time) GenerationContext {
	return GenerationContext{
		RunID:     uuid.NewString(),
		Version:   version,
		CreatedAt: now.UTC(),
	}
}

// AssignZone returns the configured zone whose envelope contains the whole
// altitude band. A band covered by no zone, or spilling across a zone edge,
// is a configuration error: the bin layout and the zone envelopes disagree.
func AssignZone(zones []ZoneDef, altMinKm, altMaxKm float64) (model.OrbitZone, error) {
	for _, z := range zones {
		if altMinKm >= z.AltMinKm && altMaxKm <= z.AltMaxKm {
			return model.OrbitZone(z.Name), nil
		}
	}
	for _, z := range zones {
		if altMinKm < z.AltMaxKm && altMaxKm > z.AltMinKm {
			return "", &model.ConfigurationError{
				Field: "zones",
				Reason: fmt.Sprintf("altitude band [%g, %g] spans the %s zone edge",
					altMinKm, altMaxKm, z.Name),
			}
		}
	}
	return "", &model.ConfigurationError{
		Field:  "zones",
		Reason: fmt.Sprintf("altitude band [%g, %g] is outside every configured zone", altMinKm, altMaxKm),
	}
}

// Assembler merges index bounds, a validated geometry, and run provenance
// into immutable tract records.
type Assembler struct {
	Zones []ZoneDef
	Run   GenerationContext
}

// Assemble builds the record for one index tuple. The tract identifier is
// derived from the tuple and the assigned zone, so repeated runs over the
// same configuration yield identical identifiers.
func (a *Assembler) Assemble(t IndexTuple) (model.Tract, error) {
	zone, err := AssignZone(a.Zones, t.Alt.Lo, t.Alt.Hi)
	if err != nil {
		return model.Tract{}, err
	}
	id := TractID(string(zone), t)
	return model.NewTract(id,
		t.Alt.Lo, t.Alt.Hi,
		t.Inc.Lo, t.Inc.Hi,
		t.Az.Lo, t.Az.Hi,
		t.ThetaStart, t.ThetaEnd,
		zone, a.Run.Version, a.Run.CreatedAt)
}
