// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"field-verification/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled lib/pq connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// schemaStatements create the tables the workers own. Each is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS vehicle_registry (
		plate         VARCHAR(12) PRIMARY KEY,
		maker         TEXT NOT NULL,
		model         TEXT NOT NULL,
		color         TEXT NOT NULL,
		owner_name    TEXT NOT NULL,
		owner_address TEXT NOT NULL,
		owner_phone   VARCHAR(20) NOT NULL,
		vehicle_type  TEXT,
		fuel_type     TEXT,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS verification_process_scores (
		application_id VARCHAR(64) NOT NULL,
		process_id     VARCHAR(64) NOT NULL,
		steps          JSONB NOT NULL,
		total          NUMERIC(10,2) NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (application_id, process_id)
	)`,
}

// Migrate creates the worker tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}
	return nil
}
