package db

import (
	"context"

	"github.com/gnames/flasky/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It owns the connection lifecycle and exposes both the pgxpool.Pool and a
// GORM handle built on top of the same pool, so that the migration
// engine, the seeders and the web handlers share one set of connections.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// GORM returns the ORM handle of the application. It is nil before
	// Connect succeeds.
	GORM() *gorm.DB

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	DropAllTables(ctx context.Context) error

	// VacuumAnalyze reclaims storage and refreshes planner statistics.
	VacuumAnalyze(ctx context.Context) error
}
