package ioschema

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// LoadMigrationsError is returned when revision files cannot be read
// or have invalid names.
func LoadMigrationsError(name string, err error) error {
	msg := `Cannot load schema revisions from <em>%s</em>

<em>How to fix:</em>
  1. Revision files must be named <version>_<description>.sql
  2. Every version must be unique`

	return &gn.Error{
		Code: errcode.SchemaLoadMigrationsError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to load revisions %q: %w", name, err),
	}
}

// VersionTableError is returned when the schema_versions table cannot
// be created.
func VersionTableError(err error) error {
	msg := `Cannot create schema_versions table

<em>Possible causes:</em>
  - Insufficient database permissions
  - Database is read-only

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaVersionTableError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema_versions: %w", err),
	}
}

// VersionQueryError is returned when applied versions cannot be read.
func VersionQueryError(err error) error {
	msg := "Cannot read applied schema versions"

	return &gn.Error{
		Code: errcode.SchemaVersionQueryError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to query schema_versions: %w", err),
	}
}

// ApplyMigrationError is returned when a revision fails. The revision
// is rolled back and later revisions are not attempted.
func ApplyMigrationError(name string, err error) error {
	msg := `Schema revision <em>%s</em> failed and was rolled back

<em>How to fix:</em>
  1. Check the revision SQL against the current database
  2. Run <em>flasky db history</em> to see applied revisions`

	return &gn.Error{
		Code: errcode.SchemaApplyMigrationError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to apply revision %s: %w", name, err),
	}
}
