package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/internal/logging"
)

// Metrics is the slice of observability the pipeline reports into. The
// collector in internal/observability implements it; tests pass nil.
type Metrics interface {
	TractGenerated(zone string)
	GeometryFailure(zone string)
	ObserveBuild(seconds float64)
	SetCatalogSize(n int)
}

// GenerateResult summarises one generation run.
type GenerateResult struct {
	Generated int
	Skipped   int
}

// Generate runs the full pipeline for one configuration: partition the
// parameter space, build a footprint per tuple, assemble records, and
// collect them into a catalog. Configuration errors abort before the first
// tract; geometry errors skip the offending tract (or abort the run when
// the configuration asks for that). Each tract is atomic - a record enters
// the catalog only together with a validated geometry.
func Generate(ctx context.Context, cfg *CatalogConfig, run GenerationContext,
	log logging.Logger, m Metrics) (*catalog.Catalog, *GenerateResult, error) {

	if log == nil {
		log = logging.Noop()
	}
	if m == nil {
		m = noopMetrics{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	tracer := otel.Tracer("orbital-tracts/core")
	ctx, span := tracer.Start(ctx, "tractgen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("zone", cfg.Zone),
		attribute.String("version", run.Version),
		attribute.String("run_id", run.RunID),
	)

	index, err := NewIndexModel(cfg.Zone, cfg.Altitude, cfg.Inclination, cfg.Azimuth, cfg.Sectors, cfg.Division)
	if err != nil {
		return nil, nil, err
	}
	asm := &Assembler{Zones: cfg.Zones, Run: run}

	cat := catalog.New()
	res := &GenerateResult{}

	for _, tuple := range index.Tuples() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		tract, err := asm.Assemble(tuple)
		if err != nil {
			// Assembly failures are configuration-level: the bin layout
			// disagrees with the zone envelopes. Abort the whole run.
			return nil, nil, err
		}

		start := time.Now()
		geom, err := BuildPanel(PanelSpec{
			TractID:   tract.ID,
			AltMinKm:  tract.AltMinKm,
			AltMaxKm:  tract.AltMaxKm,
			IncMinDeg: tract.IncMinDeg,
			IncMaxDeg: tract.IncMaxDeg,
			AzMinDeg:  tract.AzMinDeg,
			AzMaxDeg:  tract.AzMaxDeg,
			Steps:     cfg.Steps,
			Seam:      cfg.Seam,
		})
		m.ObserveBuild(time.Since(start).Seconds())
		if err != nil {
			m.GeometryFailure(string(tract.Zone))
			if cfg.AbortOnError {
				return nil, nil, err
			}
			res.Skipped++
			log.Warn(ctx, "skipping tract: geometry construction failed",
				logging.String("tract_id", tract.ID),
				logging.String("tuple", tuple.String()),
				logging.String("error", err.Error()),
			)
			continue
		}

		if err := cat.Add(tract, geom); err != nil {
			// Duplicate identifiers mean the partition itself is broken;
			// never emit a partial catalog on top of that.
			return nil, nil, err
		}
		m.TractGenerated(string(tract.Zone))
		res.Generated++
	}

	m.SetCatalogSize(cat.Len())
	span.SetAttributes(
		attribute.Int("tracts.generated", res.Generated),
		attribute.Int("tracts.skipped", res.Skipped),
	)
	log.Info(ctx, "generation complete",
		logging.String("zone", cfg.Zone),
		logging.String("version", run.Version),
		logging.Int("generated", res.Generated),
		logging.Int("skipped", res.Skipped),
	)
	return cat, res, nil
}

type noopMetrics struct{}

func (noopMetrics) TractGenerated(string)  {}
func (noopMetrics) GeometryFailure(string) {}
func (noopMetrics) ObserveBuild(float64)   {}
func (noopMetrics) SetCatalogSize(int)     {}
