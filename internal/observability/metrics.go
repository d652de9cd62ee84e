package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GenerationCollector bundles Prometheus metrics for the tract generation
// pipeline and exposes a ready-to-serve /metrics handler for long batch
// runs.
type GenerationCollector struct {
	gatherer prometheus.Gatherer

	TractsGenerated  *prometheus.CounterVec
	GeometryFailures *prometheus.CounterVec
	BuildDuration    prometheus.Histogram
	CatalogSize      prometheus.Gauge
}

// NewGenerationCollector registers the generation metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewGenerationCollector(reg prometheus.Registerer) (*GenerationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracts_generated_total",
		Help: "Total number of tracts generated, labeled by orbit zone.",
	}, []string{"zone"})
	generated, err := registerCounterVec(reg, generated, "tracts_generated_total")
	if err != nil {
		return nil, err
	}

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tract_geometry_failures_total",
		Help: "Total number of tracts skipped because footprint construction failed, labeled by orbit zone.",
	}, []string{"zone"})
	failures, err = registerCounterVec(reg, failures, "tract_geometry_failures_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tract_build_duration_seconds",
		Help:    "Footprint construction latency per tract in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	duration, err = registerHistogram(reg, duration, "tract_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	size, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tract_catalog_size",
		Help: "Number of tracts in the catalog produced by the most recent run.",
	}), "tract_catalog_size")
	if err != nil {
		return nil, err
	}

	return &GenerationCollector{
		gatherer:         gatherer,
		TractsGenerated:  generated,
		GeometryFailures: failures,
		BuildDuration:    duration,
		CatalogSize:      size,
	}, nil
}

// TractGenerated records one successfully assembled tract.
func (c *GenerationCollector) TractGenerated(zone string) {
	if c == nil || c.TractsGenerated == nil {
		return
	}
	c.TractsGenerated.WithLabelValues(zone).Inc()
}

// GeometryFailure records one tract skipped on a geometry error.
func (c *GenerationCollector) GeometryFailure(zone string) {
	if c == nil || c.GeometryFailures == nil {
		return
	}
	c.GeometryFailures.WithLabelValues(zone).Inc()
}

// ObserveBuild records one footprint construction duration.
func (c *GenerationCollector) ObserveBuild(seconds float64) {
	if c == nil || c.BuildDuration == nil {
		return
	}
	c.BuildDuration.Observe(seconds)
}

// SetCatalogSize records the size of the finished catalog.
func (c *GenerationCollector) SetCatalogSize(n int) {
	if c == nil || c.CatalogSize == nil {
		return
	}
	c.CatalogSize.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GenerationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
