// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"testing"

	"github.com/gnames/flasky/internal/ioconfig"
	"github.com/gnames/flasky/internal/iodb"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/db"
)

// TestDatabaseName is the database name used for all integration tests.
// Tests never run against development or production databases.
const TestDatabaseName = "flasky_test"

// GetTestConfig returns the configuration of the testing profile.
// TEST_DATABASE_URL is honored when set, otherwise the database name is
// forced to TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg, err := ioconfig.Load("", config.ProfileTesting)
	if err != nil {
		cfg = config.New()
		cfg.Update([]config.Option{config.OptTesting(true)})
	}

	if cfg.Database.URL == "" {
		cfg.Database.Database = TestDatabaseName
	}
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// Connect opens a database operator on the test database and closes it
// when the test finishes.
func Connect(t *testing.T) db.Operator {
	t.Helper()

	op := iodb.NewPgxOperator()
	err := op.Connect(context.Background(), GetTestDatabaseConfig())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = op.Close() })
	return op
}

// DropAllTables leaves the test database empty.
func DropAllTables(t *testing.T, op db.Operator) {
	t.Helper()

	if err := op.DropAllTables(context.Background()); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}
}
