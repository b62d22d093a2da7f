package ioseed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gnames/flasky/internal/iodb"
	"github.com/gnames/flasky/internal/ioschema"
	"github.com/gnames/flasky/internal/ioseed"
	"github.com/gnames/flasky/internal/iotesting"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/db"
	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/flasky/pkg/lifecycle"
	"github.com/gnames/flasky/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederNotConnected(t *testing.T) {
	s := ioseed.New(config.New(), iodb.NewPgxOperator())

	_, err := s.InsertRoles(context.Background())
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	_, err = s.AddSelfFollows(context.Background())
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func setup(t *testing.T) (db.Operator, lifecycle.Seeder) {
	t.Helper()
	op := iotesting.Connect(t)
	iotesting.DropAllTables(t, op)
	_, err := ioschema.NewManager(op).Upgrade(context.Background())
	require.NoError(t, err)

	cfg := iotesting.GetTestConfig()
	cfg.Database.BatchSize = 2
	return op, ioseed.New(cfg, op)
}

func TestInsertRolesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	assert := assert.New(t)
	ctx := context.Background()
	op, s := setup(t)

	// a stale canonical role and a custom one
	gdb := op.GORM()
	require.NoError(t, gdb.Create(&schema.Role{
		Name: "Moderator", Permissions: schema.PermAdmin, Default: true,
	}).Error)
	require.NoError(t, gdb.Create(&schema.Role{Name: "Guest"}).Error)

	for range 2 {
		n, err := s.InsertRoles(ctx)
		require.NoError(t, err)
		assert.Equal(3, n)
	}

	var roles []schema.Role
	require.NoError(t, gdb.Order("name").Find(&roles).Error)
	require.Len(t, roles, 4)

	byName := make(map[string]schema.Role)
	for _, v := range roles {
		byName[v.Name] = v
	}
	assert.True(byName["User"].Default)
	assert.False(byName["Moderator"].Default)
	assert.Equal(schema.PermFollow|schema.PermComment|schema.PermWrite|
		schema.PermModerate, byName["Moderator"].Permissions)
	assert.Equal(schema.Permission(0x1f), byName["Administrator"].Permissions)
	assert.Contains(byName, "Guest")
}

func TestAddSelfFollowsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	assert := assert.New(t)
	ctx := context.Background()
	op, s := setup(t)
	gdb := op.GORM()

	n, err := s.AddSelfFollows(ctx)
	require.NoError(t, err)
	assert.Equal(int64(0), n)

	for i := range 5 {
		u := schema.User{
			Email:    fmt.Sprintf("u%d@example.com", i),
			Username: fmt.Sprintf("u%d", i),
		}
		require.NoError(t, gdb.Create(&u).Error)
	}

	// one user already follows themselves
	var first schema.User
	require.NoError(t, gdb.Order("id").First(&first).Error)
	require.NoError(t, gdb.Create(&schema.Follow{
		FollowerID: first.ID, FollowedID: first.ID,
	}).Error)

	n, err = s.AddSelfFollows(ctx)
	require.NoError(t, err)
	assert.Equal(int64(4), n)

	n, err = s.AddSelfFollows(ctx)
	require.NoError(t, err)
	assert.Equal(int64(0), n)

	var count int64
	require.NoError(t, gdb.Model(&schema.Follow{}).
		Where("follower_id = followed_id").Count(&count).Error)
	assert.Equal(int64(5), count)
}
