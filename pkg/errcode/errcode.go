package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteFileError
	ReadFileError
	DotEnvError

	// Logging errors
	OpenLogFileError

	// Configuration errors
	UnknownProfileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBTableExistsCheckError
	DBGORMConnectionError
	DBQueryTablesError
	DBDropTableError
	DBVacuumError

	// Schema migration errors
	SchemaLoadMigrationsError
	SchemaVersionTableError
	SchemaVersionQueryError
	SchemaApplyMigrationError

	// Seeding errors
	SeedRolesError
	SeedSelfFollowsError

	// Deploy errors
	DeployStepError

	// Shell errors
	ShellUnknownNameError
	ShellQueryError

	// Test runner errors
	TestRunError
	CoverageReportError

	// Server errors
	ServerError
	ProfileDirError
)
