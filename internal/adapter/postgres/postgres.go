// Package postgres stores fasting, weight and profile snapshots in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := New(s)
	if err := d.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// New wraps an existing connection pool without migrating.
func New(s *sql.DB) *DB {
	return &DB{sql: s}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS fasting_sessions (id TEXT PRIMARY KEY, start_time TIMESTAMPTZ NOT NULL, end_time TIMESTAMPTZ, target_hours DOUBLE PRECISION NOT NULL CHECK(target_hours > 0 AND target_hours <= 720));`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_fasting_sessions_open ON fasting_sessions((end_time IS NULL)) WHERE end_time IS NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_fasting_sessions_start_time ON fasting_sessions(start_time);`,
	`CREATE TABLE IF NOT EXISTS fasting_plan (weekday SMALLINT PRIMARY KEY CHECK(weekday BETWEEN 0 AND 6), hours DOUBLE PRECISION NOT NULL);`,
	`CREATE TABLE IF NOT EXISTS weight_entries (id TEXT PRIMARY KEY, weight DOUBLE PRECISION NOT NULL, unit TEXT NOT NULL CHECK(unit IN ('kg','lbs')), recorded_at TIMESTAMPTZ NOT NULL);`,
	`CREATE INDEX IF NOT EXISTS idx_weight_entries_recorded_at ON weight_entries(recorded_at);`,
	`CREATE TABLE IF NOT EXISTS user_profile (id SMALLINT PRIMARY KEY CHECK(id = 1), name TEXT NOT NULL, target_weight DOUBLE PRECISION NOT NULL, weight_unit TEXT NOT NULL CHECK(weight_unit IN ('kg','lbs')), fasting_goal DOUBLE PRECISION NOT NULL);`,
}

// Migrate creates the schema if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
