// Command tractgen generates an orbital tract catalog from a JSON
// configuration and renders it as GeoJSON, CZML, and/or PostGIS rows.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/orbital-tracts/core"
	"github.com/signalsfoundry/orbital-tracts/export"
	"github.com/signalsfoundry/orbital-tracts/internal/logging"
	"github.com/signalsfoundry/orbital-tracts/internal/observability"
	"github.com/signalsfoundry/orbital-tracts/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to the catalog configuration JSON (required)")
	geojsonPath := flag.String("geojson", "", "write the catalog as a GeoJSON FeatureCollection to this path")
	czmlPath := flag.String("czml", "", "write the catalog as a CZML document to this path")
	dbDSN := flag.String("db", "", "PostgreSQL DSN; when set, the catalog is persisted")
	verify := flag.Bool("verify", true, "cross-check the GeoJSON and CZML renderings for consistency")
	abortOnError := flag.Bool("abort-on-error", false, "stop at the first geometry failure instead of skipping the tract")
	metricsListen := flag.String("metrics-listen", "", "serve Prometheus metrics on this address during the run")
	versionTag := flag.String("version-tag", "", "override the catalog version from the configuration")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, options{
		configPath:    *configPath,
		geojsonPath:   *geojsonPath,
		czmlPath:      *czmlPath,
		dbDSN:         *dbDSN,
		verify:        *verify,
		abortOnError:  *abortOnError,
		metricsListen: *metricsListen,
		versionTag:    *versionTag,
	}); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	geojsonPath   string
	czmlPath      string
	dbDSN         string
	verify        bool
	abortOnError  bool
	metricsListen string
	versionTag    string
}

func run(ctx context.Context, log logging.Logger, opts options) error {
	if opts.configPath == "" {
		return fmt.Errorf("missing required -config flag")
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	metrics, err := observability.NewGenerationCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if opts.metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(opts.metricsListen, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
	}

	f, err := os.Open(opts.configPath)
	if err != nil {
		return fmt.Errorf("open configuration: %w", err)
	}
	cfg, err := core.LoadCatalogConfig(f)
	f.Close()
	if err != nil {
		return err
	}
	if opts.versionTag != "" {
		cfg.Version = opts.versionTag
	}
	if opts.abortOnError {
		cfg.AbortOnError = true
	}

	gen := core.NewGenerationContext(cfg.Version, time.Now())
	ctx, log = logging.WithRunLogger(ctx, log, gen.RunID)

	cat, result, err := core.Generate(ctx, cfg, gen, log, metrics)
	if err != nil {
		return err
	}
	entries := cat.List()

	renderGeoJSON := func(w io.Writer) error { return export.WriteGeoJSON(w, entries) }
	czmlOpts := export.CZMLOptions{
		Name:         fmt.Sprintf("orbital-tracts-%s-%s", cfg.Zone, cfg.Version),
		ValidityDays: cfg.ValidityDays,
	}
	renderCZML := func(w io.Writer) error { return export.WriteCZML(w, czmlOpts, gen.CreatedAt, entries) }

	if opts.geojsonPath != "" {
		if err := writeDocument(opts.geojsonPath, renderGeoJSON); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
	}
	if opts.czmlPath != "" {
		if err := writeDocument(opts.czmlPath, renderCZML); err != nil {
			return fmt.Errorf("write czml: %w", err)
		}
	}

	if opts.verify {
		geojsonDoc, err := documentBytes(opts.geojsonPath, renderGeoJSON)
		if err != nil {
			return err
		}
		czmlDoc, err := documentBytes(opts.czmlPath, renderCZML)
		if err != nil {
			return err
		}
		if err := export.VerifyConsistency(geojsonDoc, czmlDoc); err != nil {
			return fmt.Errorf("cross-format verification: %w", err)
		}
		log.Info(ctx, "cross-format verification passed")
	}

	if opts.dbDSN != "" {
		st, err := store.Open(ctx, opts.dbDSN, log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.WriteCatalog(ctx, entries, store.WritePolicy(cfg.WritePolicy)); err != nil {
			return err
		}
	}

	log.Info(ctx, "catalog run complete",
		logging.String("zone", cfg.Zone),
		logging.String("version", cfg.Version),
		logging.Int("generated", result.Generated),
		logging.Int("skipped", result.Skipped),
	)
	return nil
}

// writeDocument streams one rendering straight to its output file, so a
// large catalog never has to fit a whole document in memory.
func writeDocument(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// documentBytes obtains one document for verification: read back from the
// written file when one exists, rendered into memory otherwise. Both
// documents take part in the cross-check even when only one output path was
// requested.
func documentBytes(path string, render func(io.Writer) error) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
