// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/db"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool  *pgxpool.Pool
	sqlDB *sql.DB
	gorm  *gorm.DB
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL and opens
// GORM on top of it.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// A CLI and a dev server never need many connections.
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return GORMConnectionError(err)
	}

	p.pool = pool
	p.sqlDB = sqlDB
	p.gorm = gormDB
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.sqlDB != nil {
		p.sqlDB.Close()
		p.sqlDB = nil
	}
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	p.gorm = nil
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// GORM returns the ORM handle that shares the pool.
func (p *pgxOperator) GORM() *gorm.DB {
	return p.gorm
}

// TableExists checks if a table exists in the public schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	res, err := p.exists(ctx, "AND table_name = $1", tableName)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return res, nil
}

// HasTables checks if the public schema has any tables.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	res, err := p.exists(ctx, "")
	if err != nil {
		return false, TableCheckError(err)
	}
	return res, nil
}

func (p *pgxOperator) exists(
	ctx context.Context,
	cond string,
	args ...any,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' ` + cond + `)`

	var res bool
	err := p.pool.QueryRow(ctx, query, args...).Scan(&res)
	return res, err
}

// DropAllTables drops all tables in the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return QueryTablesError(err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return QueryTablesError(err)
	}

	for _, table := range tables {
		dropSQL := "DROP TABLE IF EXISTS " +
			pgx.Identifier{table}.Sanitize() + " CASCADE"
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}

// VacuumAnalyze runs VACUUM ANALYZE on the entire database.
// It cannot run inside a transaction block, so it goes directly
// through the pool.
func (p *pgxOperator) VacuumAnalyze(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	slog.Info("Running VACUUM ANALYZE on database")
	timeStart := time.Now()

	if _, err := p.pool.Exec(ctx, "VACUUM ANALYZE"); err != nil {
		return VacuumError(err)
	}

	slog.Info("VACUUM ANALYZE completed",
		"duration", gnfmt.TimeString(time.Since(timeStart).Seconds()))
	return nil
}
