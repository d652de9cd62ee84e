// Package store persists a generated tract catalog into PostgreSQL with
// PostGIS: one relational table for tract metadata and one geometry table
// holding each footprint as a 3D polygon in SRID 4326.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/signalsfoundry/orbital-tracts/catalog"
	"github.com/signalsfoundry/orbital-tracts/internal/logging"
	"github.com/signalsfoundry/orbital-tracts/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// WritePolicy controls how a run's rows interact with rows already present.
type WritePolicy string

const (
	// WriteReplace deletes every stored row for the catalog's orbit zone
	// before inserting the new rows.
	WriteReplace WritePolicy = "replace"
	// WriteAppend inserts alongside existing rows; the (tract_id, version)
	// key keeps runs distinguishable.
	WriteAppend WritePolicy = "append"
)

// Store wraps a PostGIS-backed database handle.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open connects to PostgreSQL via the pgx stdlib driver, verifies the
// connection, and applies any pending schema migrations.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Noop()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug(ctx, "database ready")
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// WriteCatalog persists all catalog entries in one transaction. Under
// WriteReplace, rows for the zones present in the entries are removed first;
// under WriteAppend, rows are inserted as-is and key collisions surface as
// errors.
func (s *Store) WriteCatalog(ctx context.Context, entries []catalog.Entry, policy WritePolicy) error {
	if policy != WriteReplace && policy != WriteAppend {
		return &model.ConfigurationError{Field: "write_policy", Reason: fmt.Sprintf("unknown policy %q", policy)}
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if policy == WriteReplace {
		for _, zone := range zonesOf(entries) {
			// Geometry rows cascade from the metadata delete.
			if _, err := tx.ExecContext(ctx, `DELETE FROM tracts WHERE orbit_zone = $1`, zone); err != nil {
				return fmt.Errorf("clear zone %s: %w", zone, err)
			}
		}
	}

	insertTract, err := tx.PrepareContext(ctx, `
		INSERT INTO tracts (
			tract_id, version,
			alt_min, alt_max, inc_min, inc_max, az_min, az_max,
			theta_start_idx, theta_end_idx, orbit_zone, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return fmt.Errorf("prepare tract insert: %w", err)
	}
	defer insertTract.Close()

	insertGeom, err := tx.PrepareContext(ctx, `
		INSERT INTO tract_geometries (tract_id, version, footprint)
		VALUES ($1, $2, ST_GeomFromEWKT($3))`)
	if err != nil {
		return fmt.Errorf("prepare geometry insert: %w", err)
	}
	defer insertGeom.Close()

	for _, e := range entries {
		t := e.Tract
		if _, err := insertTract.ExecContext(ctx,
			t.ID, t.Version,
			t.AltMinKm, t.AltMaxKm, t.IncMinDeg, t.IncMaxDeg, t.AzMinDeg, t.AzMaxDeg,
			t.ThetaStartIdx, t.ThetaEndIdx, string(t.Zone), t.CreatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert tract %s: %w", t.ID, err)
		}
		if _, err := insertGeom.ExecContext(ctx, t.ID, t.Version, EWKT(e.Geometry)); err != nil {
			return fmt.Errorf("insert geometry %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info(ctx, "catalog persisted",
		logging.Int("tracts", len(entries)),
		logging.String("policy", string(policy)),
	)
	return nil
}

// CountTracts reports the number of stored tracts for one orbit zone.
func (s *Store) CountTracts(ctx context.Context, zone string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracts WHERE orbit_zone = $1`, zone).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tracts: %w", err)
	}
	return n, nil
}

func zonesOf(entries []catalog.Entry) []string {
	seen := make(map[string]struct{})
	var zones []string
	for _, e := range entries {
		z := string(e.Tract.Zone)
		if _, ok := seen[z]; ok {
			continue
		}
		seen[z] = struct{}{}
		zones = append(zones, z)
	}
	return zones
}
