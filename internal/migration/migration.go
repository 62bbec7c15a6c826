package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gopower/internal"
	"gopower/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

var migrateLog = internal.DefaultLogger.Named("migration")

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every step is
// idempotent, so rerunning against an existing schema is safe.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createBiomarkersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create biomarkers table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createBiomarkersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS biomarkers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			resolution VARCHAR(20) NOT NULL,
			key VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			biological_sd DOUBLE PRECISION NOT NULL CHECK (biological_sd >= 0),
			intersystem_sd DOUBLE PRECISION NOT NULL CHECK (intersystem_sd >= 0),
			published_total_sd DOUBLE PRECISION,
			source TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (resolution, key)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_biomarkers_resolution ON biomarkers(resolution)",
		"CREATE INDEX IF NOT EXISTS idx_biomarkers_resolution_key ON biomarkers(resolution, key)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Index creation failures are not fatal; lookups still work.
			migrateLog.Warn("failed to create index: %v", err)
		}
	}

	return nil
}
