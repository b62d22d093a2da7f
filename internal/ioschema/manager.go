// Package ioschema implements the lifecycle.SchemaManager interface.
// Revisions are versioned SQL files read through atlas' migration
// directory model; applied revisions are recorded in schema_versions.
// This is an impure I/O package.
package ioschema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"github.com/gnames/flasky/pkg/db"
	"github.com/gnames/flasky/pkg/lifecycle"
	"github.com/gnames/flasky/pkg/schema"
	"gorm.io/gorm"
)

// lockID is the key of the PostgreSQL advisory lock that serializes
// concurrent upgrades.
const lockID = 7_041_990

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	operator db.Operator
	fsys     fs.FS
	root     string
}

// NewManager binds the migration engine to a connected database
// operator, using revisions embedded in the schema package.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return NewManagerFS(op, schema.Migrations, schema.MigrationsDir)
}

// NewManagerFS is like NewManager, but reads revisions from
// fsys/root.
func NewManagerFS(
	op db.Operator,
	fsys fs.FS,
	root string,
) lifecycle.SchemaManager {
	return &manager{operator: op, fsys: fsys, root: root}
}

// Upgrade applies pending revisions, oldest first. Every revision runs
// in its own transaction together with its schema_versions record, so
// a failed revision leaves the database at the previous version.
func (m *manager) Upgrade(ctx context.Context) (int, error) {
	gdb, err := m.gorm(ctx)
	if err != nil {
		return 0, err
	}

	files, err := m.files()
	if err != nil {
		return 0, err
	}

	if err = ensureVersionTable(gdb); err != nil {
		return 0, err
	}

	applied, err := appliedVersions(gdb)
	if err != nil {
		return 0, err
	}

	var count int
	for _, f := range files {
		if _, ok := applied[f.Version()]; ok {
			continue
		}
		done, err := apply(gdb, f)
		if err != nil {
			return count, err
		}
		if !done {
			continue
		}
		count++
		slog.Info("Applied schema revision",
			"version", f.Version(),
			"description", f.Desc(),
		)
	}

	checkModels(gdb)
	return count, nil
}

// Current returns the latest applied version.
func (m *manager) Current(ctx context.Context) (string, error) {
	gdb, err := m.gorm(ctx)
	if err != nil {
		return "", err
	}

	ok, err := m.versionTableExists(ctx)
	if err != nil || !ok {
		return "", err
	}

	var rows []schema.SchemaVersion
	err = gdb.Order("version DESC").Limit(1).Find(&rows).Error
	if err != nil {
		return "", VersionQueryError(err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Version, nil
}

// History lists known revisions merged with applied ones. Applied
// versions that have no file are reported as unknown.
func (m *manager) History(ctx context.Context) ([]lifecycle.Revision, error) {
	gdb, err := m.gorm(ctx)
	if err != nil {
		return nil, err
	}

	files, err := m.files()
	if err != nil {
		return nil, err
	}

	ok, err := m.versionTableExists(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]schema.SchemaVersion)
	if ok {
		if applied, err = appliedVersions(gdb); err != nil {
			return nil, err
		}
	}

	res := make([]lifecycle.Revision, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		rev := lifecycle.Revision{Version: f.Version(), Description: f.Desc()}
		if v, ok := applied[f.Version()]; ok {
			rev.Applied = true
			rev.AppliedAt = v.AppliedAt
		}
		seen[f.Version()] = struct{}{}
		res = append(res, rev)
	}

	for k, v := range applied {
		if _, ok := seen[k]; ok {
			continue
		}
		res = append(res, lifecycle.Revision{
			Version:     k,
			Description: "unknown revision: " + v.Description,
			Applied:     true,
			AppliedAt:   v.AppliedAt,
		})
	}
	slices.SortFunc(res, func(a, b lifecycle.Revision) int {
		return strings.Compare(a.Version, b.Version)
	})
	return res, nil
}

func (m *manager) gorm(ctx context.Context) (*gorm.DB, error) {
	if m.operator == nil || m.operator.GORM() == nil {
		return nil, NotConnectedError()
	}
	return m.operator.GORM().WithContext(ctx), nil
}

func (m *manager) versionTableExists(ctx context.Context) (bool, error) {
	ok, err := m.operator.TableExists(ctx, schema.SchemaVersion{}.TableName())
	if err != nil {
		return false, VersionQueryError(err)
	}
	return ok, nil
}

func (m *manager) files() ([]migrate.File, error) {
	dir, err := LoadDir(m.fsys, m.root)
	if err != nil {
		return nil, err
	}
	return Files(dir)
}

// LoadDir copies SQL revisions from fsys/root into an in-memory atlas
// migration directory.
func LoadDir(fsys fs.FS, root string) (migrate.Dir, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, LoadMigrationsError(root, err)
	}

	dir := &migrate.MemDir{}
	for _, v := range entries {
		if v.IsDir() || path.Ext(v.Name()) != ".sql" {
			continue
		}
		bs, err := fs.ReadFile(fsys, path.Join(root, v.Name()))
		if err != nil {
			return nil, LoadMigrationsError(v.Name(), err)
		}
		if err = dir.WriteFile(v.Name(), bs); err != nil {
			return nil, LoadMigrationsError(v.Name(), err)
		}
	}
	return dir, nil
}

// Files returns revisions of dir sorted by version. Every file must have
// a "<version>_<description>.sql" name and versions must be unique.
func Files(dir migrate.Dir) ([]migrate.File, error) {
	files, err := dir.Files()
	if err != nil {
		return nil, LoadMigrationsError("", err)
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		if f.Version() == "" || f.Desc() == "" {
			return nil, LoadMigrationsError(f.Name(),
				errors.New("file name must be <version>_<description>.sql"))
		}
		if prev, ok := seen[f.Version()]; ok {
			return nil, LoadMigrationsError(f.Name(),
				errors.New("version is already used by "+prev))
		}
		seen[f.Version()] = f.Name()
	}

	slices.SortStableFunc(files, func(a, b migrate.File) int {
		return strings.Compare(a.Version(), b.Version())
	})
	return files, nil
}

// checkModels warns about mapped models whose tables no revision
// created.
func checkModels(gdb *gorm.DB) {
	for _, v := range schema.AllModels() {
		if !gdb.Migrator().HasTable(v) {
			slog.Warn("Model has no table after upgrade",
				"model", fmt.Sprintf("%T", v))
		}
	}
}

func ensureVersionTable(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&schema.SchemaVersion{}); err != nil {
		return VersionTableError(err)
	}
	return nil
}

func appliedVersions(gdb *gorm.DB) (map[string]schema.SchemaVersion, error) {
	var rows []schema.SchemaVersion
	if err := gdb.Order("version").Find(&rows).Error; err != nil {
		return nil, VersionQueryError(err)
	}
	res := make(map[string]schema.SchemaVersion, len(rows))
	for _, v := range rows {
		res[v.Version] = v
	}
	return res, nil
}

// apply runs one revision. It returns false if another process applied
// the revision while this one waited for the lock.
func apply(gdb *gorm.DB, f migrate.File) (bool, error) {
	stmts, err := f.Stmts()
	if err != nil {
		return false, ApplyMigrationError(f.Name(), err)
	}

	var done bool
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", lockID).Error; err != nil {
			return err
		}

		var n int64
		err := tx.Model(&schema.SchemaVersion{}).
			Where("version = ?", f.Version()).
			Count(&n).Error
		if err != nil || n > 0 {
			return err
		}

		for _, s := range stmts {
			if err := tx.Exec(s).Error; err != nil {
				return err
			}
		}

		done = true
		return tx.Create(&schema.SchemaVersion{
			Version:     f.Version(),
			Description: f.Desc(),
			AppliedAt:   time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return false, ApplyMigrationError(f.Name(), err)
	}
	return done, nil
}
