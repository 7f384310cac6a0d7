package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Schema creates the catalog tables when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS pipes (
	id SERIAL PRIMARY KEY,
	pipe_type TEXT NOT NULL,
	nominal_diameter_mm DOUBLE PRECISION NOT NULL UNIQUE,
	wall_thickness_mm DOUBLE PRECISION NOT NULL,
	internal_diameter_mm DOUBLE PRECISION NOT NULL,
	flow_type TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS drippers (
	id SERIAL PRIMARY KEY,
	dripper_type TEXT NOT NULL,
	flow_rates TEXT NOT NULL,
	physical_type TEXT NOT NULL,
	exponent_x DOUBLE PRECISION NOT NULL,
	min_pressure_bar DOUBLE PRECISION NOT NULL,
	max_pressure_bar DOUBLE PRECISION NOT NULL,
	notes TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS fittings (
	id SERIAL PRIMARY KEY,
	fitting_name TEXT NOT NULL,
	engineering_symbol TEXT NOT NULL,
	k_value_small DOUBLE PRECISION NOT NULL,
	k_value_large DOUBLE PRECISION NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);`

type PostgresConfig struct {
	URL         string
	PingTimeout time.Duration
	MaxRetries  int
}

func (c PostgresConfig) Validate() error {
	if c.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.PingTimeout <= 0 {
		return errors.New("DATABASE_PING_TIMEOUT must be positive")
	}
	return nil
}

// OpenPostgres opens the pgx driver and pings it, retrying with exponential backoff.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 5
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	err = backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Printf("catalog: postgres ping failed: %v", err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries-1)), ctx))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// Migrate creates the tables and seeds them with the default catalog when the
// pipes table is empty.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pipes`).Scan(&n); err != nil {
		return fmt.Errorf("count pipes: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range DefaultPipes() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pipes (pipe_type, nominal_diameter_mm, wall_thickness_mm, internal_diameter_mm, flow_type, notes)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.PipeType, p.NominalMM, p.WallMM, p.InternalMM, p.FlowType, p.Notes); err != nil {
			return fmt.Errorf("seed pipe %v: %w", p.NominalMM, err)
		}
	}
	for _, d := range DefaultDrippers() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO drippers (dripper_type, flow_rates, physical_type, exponent_x, min_pressure_bar, max_pressure_bar, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			d.DripperType, d.FlowRates, d.PhysicalType, d.ExponentX, d.MinPressureBar, d.MaxPressureBar, d.Notes); err != nil {
			return fmt.Errorf("seed dripper %s: %w", d.DripperType, err)
		}
	}
	for _, f := range DefaultFittings() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fittings (fitting_name, engineering_symbol, k_value_small, k_value_large, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			f.Name, f.Symbol, f.KSmall, f.KLarge, f.Description); err != nil {
			return fmt.Errorf("seed fitting %s: %w", f.Name, err)
		}
	}
	return tx.Commit()
}

// LoadPostgres reads the pipes, fittings and drippers tables into a Catalog snapshot.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Catalog, error) {
	pipes, fittings, err := queryPostgres(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := (File{Pipes: pipes}).Validate(); err != nil {
		return nil, fmt.Errorf("postgres catalog: %w", err)
	}
	c := New(pipes, fittings)
	drippers, err := queryDrippers(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(drippers) > 0 {
		c.SetDrippers(drippers)
	}
	return c, nil
}

func queryPostgres(ctx context.Context, db *sql.DB) ([]entities.PipeSpec, []entities.FittingSpec, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT pipe_type, nominal_diameter_mm, wall_thickness_mm, internal_diameter_mm, flow_type, notes
		 FROM pipes ORDER BY nominal_diameter_mm`)
	if err != nil {
		return nil, nil, fmt.Errorf("query pipes: %w", err)
	}
	var pipes []entities.PipeSpec
	for rows.Next() {
		var p entities.PipeSpec
		if err := rows.Scan(&p.PipeType, &p.NominalMM, &p.WallMM, &p.InternalMM, &p.FlowType, &p.Notes); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan pipe: %w", err)
		}
		pipes = append(pipes, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	frows, err := db.QueryContext(ctx,
		`SELECT fitting_name, engineering_symbol, k_value_small, k_value_large, description FROM fittings ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query fittings: %w", err)
	}
	defer frows.Close()
	var fittings []entities.FittingSpec
	for frows.Next() {
		var f entities.FittingSpec
		if err := frows.Scan(&f.Name, &f.Symbol, &f.KSmall, &f.KLarge, &f.Description); err != nil {
			return nil, nil, fmt.Errorf("scan fitting: %w", err)
		}
		fittings = append(fittings, f)
	}
	return pipes, fittings, frows.Err()
}

func queryDrippers(ctx context.Context, db *sql.DB) ([]entities.DripperSpec, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT dripper_type, flow_rates, physical_type, exponent_x, min_pressure_bar, max_pressure_bar, notes
		 FROM drippers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query drippers: %w", err)
	}
	defer rows.Close()
	var out []entities.DripperSpec
	for rows.Next() {
		var d entities.DripperSpec
		if err := rows.Scan(&d.DripperType, &d.FlowRates, &d.PhysicalType, &d.ExponentX,
			&d.MinPressureBar, &d.MaxPressureBar, &d.Notes); err != nil {
			return nil, fmt.Errorf("scan dripper: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PostgresSource reloads a catalog from the database on demand.
type PostgresSource struct{ DB *sql.DB }

func (s PostgresSource) Fetch(ctx context.Context) ([]entities.PipeSpec, []entities.FittingSpec, error) {
	return queryPostgres(ctx, s.DB)
}
