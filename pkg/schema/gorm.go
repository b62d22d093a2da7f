package schema

import (
	"embed"
)

// Migrations holds versioned SQL revisions of the schema. File names
// follow the "<version>_<description>.sql" convention.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of revisions inside Migrations.
const MigrationsDir = "migrations"

// AllModels returns all models mapped by the application, in the
// order their tables are created.
func AllModels() []any {
	return []any{
		&Role{},
		&User{},
		&Follow{},
		&Post{},
		&Comment{},
	}
}
