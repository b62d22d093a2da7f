// Package ioseed implements the lifecycle.Seeder interface. It inserts
// canonical roles and self-follow relationships with GORM.
// This is an impure I/O package.
package ioseed

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/db"
	"github.com/gnames/flasky/pkg/lifecycle"
	"github.com/gnames/flasky/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seeder struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a Seeder that works through the operator's GORM handle.
func New(cfg *config.Config, op db.Operator) lifecycle.Seeder {
	return &seeder{cfg: cfg, operator: op}
}

// InsertRoles creates missing canonical roles and resets permissions
// and the default flag of existing ones. Roles not in the canonical
// list are left untouched.
func (s *seeder) InsertRoles(ctx context.Context) (int, error) {
	gdb, err := s.gorm(ctx)
	if err != nil {
		return 0, err
	}

	specs := schema.DefaultRoles()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		for _, spec := range specs {
			var role schema.Role
			err := tx.Where(schema.Role{Name: spec.Name}).
				FirstOrInit(&role).Error
			if err != nil {
				return err
			}

			role.ResetPermissions()
			for _, perm := range spec.Permissions {
				role.AddPermission(perm)
			}
			role.Default = spec.Default

			if err = tx.Save(&role).Error; err != nil {
				return err
			}
			slog.Debug("Role is up to date",
				"role", role.Name,
				"permissions", role.Permissions.String(),
			)
		}
		return nil
	})
	if err != nil {
		return 0, RolesError(err)
	}
	return len(specs), nil
}

// AddSelfFollows makes every user follow themselves. Existing
// relationships are kept, so only missing ones are counted.
func (s *seeder) AddSelfFollows(ctx context.Context) (int64, error) {
	gdb, err := s.gorm(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err = gdb.Model(&schema.User{}).Count(&total).Error; err != nil {
		return 0, SelfFollowsError(err)
	}
	if total == 0 {
		return 0, nil
	}

	bar := newProgressBar(total, "Adding self-follows: ")
	defer bar.Finish()

	var added int64
	var users []schema.User
	res := gdb.Model(&schema.User{}).Select("id").
		FindInBatches(&users, s.batchSize(),
			func(_ *gorm.DB, _ int) error {
				now := time.Now().UTC()
				follows := make([]schema.Follow, len(users))
				for i := range users {
					follows[i] = schema.Follow{
						FollowerID: users[i].ID,
						FollowedID: users[i].ID,
						Timestamp:  now,
					}
				}

				ins := gdb.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&follows)
				if ins.Error != nil {
					return ins.Error
				}
				added += ins.RowsAffected
				bar.Add(len(users))
				return nil
			})
	if res.Error != nil {
		return added, SelfFollowsError(res.Error)
	}
	return added, nil
}

func (s *seeder) gorm(ctx context.Context) (*gorm.DB, error) {
	if s.operator == nil || s.operator.GORM() == nil {
		return nil, NotConnectedError()
	}
	return s.operator.GORM().WithContext(ctx), nil
}

func (s *seeder) batchSize() int {
	if s.cfg == nil || s.cfg.Database.BatchSize <= 0 {
		return config.New().Database.BatchSize
	}
	return s.cfg.Database.BatchSize
}
