package database

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/config"
)

func Connect() (*sqlx.DB, error) {
	return sqlx.Connect("pgx", config.DSN())
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS water_quality_live (
		id          SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		temperature DOUBLE PRECISION,
		turbidity   DOUBLE PRECISION,
		ph          DOUBLE PRECISION,
		observed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS container_levels (
		id                SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		food_level        DOUBLE PRECISION NOT NULL DEFAULT 0,
		ph_solution_level DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS water_history (
		id                   BIGSERIAL PRIMARY KEY,
		recorded_at          TIMESTAMPTZ NOT NULL UNIQUE,
		temperature          DOUBLE PRECISION,
		turbidity            DOUBLE PRECISION,
		ph                   DOUBLE PRECISION,
		food_level_start     DOUBLE PRECISION,
		food_level_end       DOUBLE PRECISION,
		ph_level_start       DOUBLE PRECISION,
		ph_level_end         DOUBLE PRECISION,
		auto_feeding_enabled BOOLEAN,
		auto_ph_enabled      BOOLEAN,
		feeding_schedules    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS hourly_water_quality (
		recorded_at TIMESTAMPTZ PRIMARY KEY,
		temperature DOUBLE PRECISION,
		turbidity   DOUBLE PRECISION,
		ph          DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id                  SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		feeding_enabled     BOOLEAN NOT NULL DEFAULT false,
		feeding_time_1      TEXT NOT NULL DEFAULT '',
		feeding_grams_1     INTEGER NOT NULL DEFAULT 0,
		feeding_time_2      TEXT NOT NULL DEFAULT '',
		feeding_grams_2     INTEGER NOT NULL DEFAULT 0,
		ph_balancer_enabled BOOLEAN NOT NULL DEFAULT false,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS settings_triggered (
		id                     SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		feeding_last_triggered TIMESTAMPTZ,
		ph_last_triggered      TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS operators (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
