package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables and indexes if they do not exist.
// Statuses and vehicle types are CHECK-constrained to the closed
// enumerations; the application still re-validates on scan.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passengers (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			rating        DOUBLE PRECISION NOT NULL DEFAULT 5.0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS drivers (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			vehicle_type  TEXT NOT NULL CHECK (vehicle_type IN ('economy', 'premium', 'luxury')),
			vehicle_plate TEXT NOT NULL,
			available     BOOLEAN NOT NULL DEFAULT FALSE,
			is_online     BOOLEAN NOT NULL DEFAULT FALSE,
			latitude      DOUBLE PRECISION,
			longitude     DOUBLE PRECISION,
			located_at    TIMESTAMPTZ,
			rating        DOUBLE PRECISION NOT NULL DEFAULT 5.0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ride_requests (
			id                BIGSERIAL PRIMARY KEY,
			passenger_id      BIGINT NOT NULL REFERENCES passengers(id),
			driver_id         BIGINT REFERENCES drivers(id),
			status            TEXT NOT NULL CHECK (status IN
				('pending', 'assigned', 'accepted', 'in_progress', 'completed', 'cancelled')),
			vehicle_type      TEXT NOT NULL CHECK (vehicle_type IN ('economy', 'premium', 'luxury')),
			pickup_address    TEXT NOT NULL DEFAULT '',
			dropoff_address   TEXT NOT NULL DEFAULT '',
			pickup_latitude   DOUBLE PRECISION NOT NULL,
			pickup_longitude  DOUBLE PRECISION NOT NULL,
			dropoff_latitude  DOUBLE PRECISION NOT NULL,
			dropoff_longitude DOUBLE PRECISION NOT NULL,
			fare_amount       DOUBLE PRECISION,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			assigned_at       TIMESTAMPTZ,
			accepted_at       TIMESTAMPTZ,
			started_at        TIMESTAMPTZ,
			completed_at      TIMESTAMPTZ,
			cancelled_at      TIMESTAMPTZ,
			cancel_reason     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ride_requests_pending
			ON ride_requests (vehicle_type, created_at)
			WHERE status = 'pending' AND driver_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_ride_requests_passenger
			ON ride_requests (passenger_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_ride_requests_driver
			ON ride_requests (driver_id) WHERE driver_id IS NOT NULL`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
