// Package lifecycle defines contracts of the deployment lifecycle of the
// flasky database and the pure orchestration of the deploy sequence.
package lifecycle

import (
	"context"
	"time"
)

// Revision is a versioned migration script known to the application.
type Revision struct {
	// Version orders revisions, for example "20251001093000".
	Version string

	// Description is a human readable summary taken from the file name.
	Description string

	// Applied is true if the revision is recorded in the database.
	Applied bool

	// AppliedAt is the time the revision was applied, zero otherwise.
	AppliedAt time.Time
}

// SchemaManager defines the interface of the migration engine.
// Upgrade is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Upgrade applies all pending revisions in version order and returns
	// the number of revisions applied.
	Upgrade(ctx context.Context) (int, error)

	// Current returns the latest applied version, or an empty string
	// for an unversioned database.
	Current(ctx context.Context) (string, error)

	// History lists every known revision, oldest first.
	History(ctx context.Context) ([]Revision, error)
}

// Seeder populates reference data of the application.
// All methods are idempotent.
type Seeder interface {
	// InsertRoles creates or updates canonical roles and returns their
	// number.
	InsertRoles(ctx context.Context) (int, error)

	// AddSelfFollows makes every user follow themselves and returns
	// the number of created relationships.
	AddSelfFollows(ctx context.Context) (int64, error)
}
